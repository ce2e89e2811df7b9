package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/errors"
	"loom/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bundle all generated artifacts into a compressed archive",
	Long: `Scans the repository for files carrying a loom header and writes them
into a tar+zstd archive under the configured export directory.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	exporter := export.NewExporter(e.repoRoot, e.logger)
	summary, err := exporter.Export(export.Options{
		OutputDir:        e.cfg.Export.Dir,
		CompressionLevel: e.cfg.Export.CompressionLevel,
	})
	if err != nil {
		return errors.New(errors.InternalError, "Export failed", err)
	}

	fmt.Printf("Archived %d artifact(s) (%d bytes) to %s\n",
		len(summary.Files), summary.Bytes, summary.ArchivePath)
	return nil
}
