package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scaffoldsCmd = &cobra.Command{
	Use:   "scaffolds",
	Short: "List declared scaffolds and loaded templates",
	RunE:  runScaffolds,
}

func init() {
	rootCmd.AddCommand(scaffoldsCmd)
}

func runScaffolds(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	if len(e.manifest.Scaffolds) == 0 {
		fmt.Println("SCAFFOLDS.toml declares no scaffolds.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTEMPLATE\tOUTPUT\tDESCRIPTION")
		for _, d := range e.manifest.Scaffolds {
			desc := d.Description
			if desc == "" {
				if t, ok := e.registry.Get(d.Template); ok {
					desc = t.Meta.Description
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Template, d.Output, desc)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	declared := make(map[string]bool)
	for _, d := range e.manifest.Scaffolds {
		declared[d.Template] = true
	}
	var unused []string
	for _, name := range e.registry.Names() {
		if !declared[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		fmt.Println("\nTemplates with no declaration:")
		for _, name := range unused {
			fmt.Printf("  %s\n", name)
		}
	}

	return nil
}
