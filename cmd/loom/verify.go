package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/emit"
	"loom/internal/errors"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Fail when any artifact is missing, stale, or hand-edited",
	Long: `CI gate: renders every declared scaffold in memory and exits non-zero
if any artifact on disk is missing, stale, or was edited by hand. Unmanaged
files at declared output paths are reported but do not fail the check, since
loom will never overwrite them.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	decls, err := e.selectDeclarations(args)
	if err != nil {
		return err
	}

	emitter := emit.NewEmitter(e.repoRoot, e.cfg.Project.Name, e.cfg.Project.Version, e.registry, e.logger)
	plan, err := emitter.Plan(decls)
	if err != nil {
		return errors.New(errors.TemplateInvalid, "Failed to plan generation", err)
	}

	drifted := emit.Drifted(plan)
	if len(drifted) == 0 {
		fmt.Printf("All %d artifact(s) are current.\n", len(plan))
		return nil
	}

	for _, a := range drifted {
		fmt.Printf("%-8s %s (%s)\n", a.Status, a.Path, a.Scaffold)
	}
	return errors.New(errors.DriftDetected,
		fmt.Sprintf("%d artifact(s) drifted", len(drifted)), nil,
		errors.FixAction{
			Type:        errors.RunCommand,
			Command:     "loom generate",
			Description: "Regenerate missing and stale artifacts",
		})
}
