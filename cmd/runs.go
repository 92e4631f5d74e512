package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/csvforge/internal/store"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent conversion runs from the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Ledger.Path == "" {
			return eris.New("runs: ledger is disabled (empty ledger path)")
		}

		ledger, err := store.Open(cfg.Ledger.Path)
		if err != nil {
			return eris.Wrap(err, "runs: open ledger")
		}
		defer ledger.Close() //nolint:errcheck

		if err := ledger.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "runs: migrate ledger")
		}

		records, err := ledger.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs: list")
		}

		if runsJSON {
			return writeJSONOut(records, "")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTARTED\tFILES\tOK\tFAILED\tROWS\tISSUES")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				shortID(r.ID), r.StartedAt.Format("2006-01-02 15:04:05"),
				r.TotalFiles, r.Succeeded, r.Failed, r.TotalRows, r.TotalIssues)
		}
		return w.Flush()
	},
}

// shortID abbreviates a run ID for the table. IDs are normally UUIDs,
// but a hand-edited ledger row may carry anything.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "print runs as JSON")
	rootCmd.AddCommand(runsCmd)
}
