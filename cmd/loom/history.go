package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/errors"
	"loom/internal/ledger"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs from the ledger",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of runs to show (default from config)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	limit := historyLimit
	if limit <= 0 {
		limit = e.cfg.Ledger.HistoryLimit
	}

	l, err := ledger.Open(filepath.Join(e.repoRoot, config.LoomDir), e.logger)
	if err != nil {
		return errors.New(errors.LedgerUnavailable, "Failed to open generation ledger", err)
	}
	defer l.Close()

	runs, err := l.History(limit)
	if err != nil {
		return errors.New(errors.LedgerUnavailable, "Failed to read generation history", err)
	}
	if len(runs) == 0 {
		fmt.Println("No generation runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tDURATION\tWRITTEN\tSKIPPED\tPRESERVED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			shortID(r.ID),
			r.StartedAt.Local().Format(time.RFC3339),
			r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.Written, r.Skipped, r.Preserved)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
