package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/analyzer"
)

var (
	analyzeHeaderRow string
	analyzeOutput    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Detect encoding, dialect, and header structure of a CSV file",
	Long: `Runs only the structure analyzer and prints the resulting profile
as JSON, for inspection without converting anything.

Examples:
  csvforge analyze data.csv
  csvforge analyze data.csv --header-row -1 --output profile.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headerRow, err := parseHeaderRow(analyzeHeaderRow)
		if err != nil {
			return err
		}

		profile, err := analyzer.New(cfg.Analyze, zap.L()).Analyze(args[0], headerRow)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		return writeJSONOut(profile, analyzeOutput)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeHeaderRow, "header-row", "auto", "header row: auto, -1 (none), or a row index")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write profile JSON to file (default: stdout)")
	rootCmd.AddCommand(analyzeCmd)
}
