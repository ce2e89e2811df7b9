package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loom/internal/emit"
	"loom/internal/errors"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show drift status for every declared scaffold",
	Long: `Renders each declared scaffold in memory and compares it against the
file on disk. Nothing is written.

Statuses:
  current    file matches the freshly rendered content
  stale      rendered content changed; 'loom generate' will rewrite it
  edited     file was modified by hand; loom preserves it
  missing    file does not exist yet
  unmanaged  file exists but was not generated by loom`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	decls, err := e.selectDeclarations(args)
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		fmt.Println("SCAFFOLDS.toml declares no scaffolds.")
		return nil
	}

	emitter := emit.NewEmitter(e.repoRoot, e.cfg.Project.Name, e.cfg.Project.Version, e.registry, e.logger)
	plan, err := emitter.Plan(decls)
	if err != nil {
		return errors.New(errors.TemplateInvalid, "Failed to plan generation", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tSCAFFOLD\tPATH\tHASH")
	for _, a := range plan {
		hash := a.NewHash
		if a.Status == emit.StatusEdited || a.Status == emit.StatusStale {
			hash = a.OldHash + " -> " + a.NewHash
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Status, a.Scaffold, a.Path, hash)
	}
	return w.Flush()
}
