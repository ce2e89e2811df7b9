package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/emit"
	"loom/internal/errors"
	"loom/internal/ledger"
)

var (
	generateForce  bool
	generateDryRun bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [scaffold...]",
	Short: "Render declared scaffolds into the repository",
	Long: `Renders every scaffold declared in SCAFFOLDS.toml (or only the named
ones) and writes the artifacts that are missing or stale. Hand-edited files
are preserved unless --force is given; files without a loom header are never
touched.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Overwrite hand-edited artifacts")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Show what would be written without writing")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	decls, err := e.selectDeclarations(args)
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		fmt.Println("Nothing to generate: SCAFFOLDS.toml declares no scaffolds.")
		return nil
	}

	emitter := emit.NewEmitter(e.repoRoot, e.cfg.Project.Name, e.cfg.Project.Version, e.registry, e.logger)

	run := ledger.NewRun()
	plan, err := emitter.Plan(decls)
	if err != nil {
		return errors.New(errors.TemplateInvalid, "Failed to plan generation", err)
	}

	if generateDryRun {
		for _, a := range plan {
			fmt.Printf("%-10s %s (%s)\n", a.Status, a.Path, a.Scaffold)
		}
		return nil
	}

	result, err := emitter.Apply(plan, generateForce)
	if err != nil {
		return errors.New(errors.InternalError, "Failed to write artifacts", err)
	}

	run.CompletedAt = time.Now().UTC()
	run.Written = result.Written
	run.Skipped = result.Skipped
	run.Preserved = result.Preserved

	if e.cfg.Ledger.Enabled {
		if err := recordRun(e, run, result); err != nil {
			// History is best effort; the artifacts are already on disk
			e.logger.Warn("Failed to record run in ledger", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	fmt.Printf("Generated %d artifact(s), %d up to date, %d preserved.\n",
		result.Written, result.Skipped, result.Preserved)
	if result.Preserved > 0 && !generateForce {
		fmt.Println("Run 'loom status' to inspect preserved files, or 'loom generate --force' to overwrite hand-edited ones.")
	}
	return nil
}

func recordRun(e *env, run ledger.Run, result *emit.Result) error {
	l, err := ledger.Open(filepath.Join(e.repoRoot, config.LoomDir), e.logger)
	if err != nil {
		return err
	}
	defer l.Close()

	var records []ledger.ArtifactRecord
	for _, a := range result.Artifacts {
		if a.Action != emit.ActionWrote {
			continue
		}
		records = append(records, ledger.ArtifactRecord{
			Path:     a.Path,
			Scaffold: a.Scaffold,
			Hash:     a.NewHash,
		})
	}

	return l.RecordRun(run, records)
}
