package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
	"github.com/sells-group/csvforge/internal/report"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <metadata.json> <output_dir>",
	Short: "Generate run artifacts from per-file metadata",
	Long: `Runs only the summary generator: aggregates a JSON array of per-file
metadata records into run_summary.json and validation_report.md.

Example:
  csvforge summarize metadata.json ./output`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "summarize: read %s", args[0])
		}

		var files []model.FileMetadata
		if err := json.Unmarshal(data, &files); err != nil {
			return eris.Wrapf(err, "summarize: parse %s", args[0])
		}

		now := time.Now().UTC()
		summary := report.Build(uuid.New().String(), now, now, files)

		summaryPath, reportPath, err := report.New(zap.L()).Summarize(summary, args[1])
		if err != nil {
			return eris.Wrap(err, "summarize")
		}

		return writeJSONOut(map[string]string{
			"summary_path": summaryPath,
			"report_path":  reportPath,
		}, "")
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
