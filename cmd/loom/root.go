package main

import (
	"github.com/spf13/cobra"

	"loom/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "loom - scaffold generation with drift detection",
	Long: `loom renders declared scaffolds into your repository and stamps every
generated file with a provenance header. On later runs the header's content
hash tells loom whether a file is current, needs regeneration, or was edited
by hand and must be preserved.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("loom version {{.Version}}\n")
}
