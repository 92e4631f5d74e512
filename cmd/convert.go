package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/pipeline"
	"github.com/sells-group/csvforge/internal/store"
)

var (
	convertFormat      string
	convertOutputDir   string
	convertTypeInfer   bool
	convertNoTypeInfer bool
	convertStrict      bool
	convertHeaderRow   string
	convertConcurrency int
	convertLimit       int
	convertNoLedger    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <csv_files...>",
	Short: "Convert CSV files to JSON or JSONL",
	Long: `Runs the full pipeline over one or more inputs: structure analysis,
row parsing, type inference, validation, and conversion, followed by an
aggregate run summary and Markdown report.

Positional arguments accept a file path, a directory (expanded to its
*.csv files), or a glob pattern. Inputs are deduplicated by resolved
absolute path. One bad file never aborts the batch; the exit code is
non-zero iff at least one file failed.

Examples:
  # Convert a single file to pretty-printed JSON
  csvforge convert data.csv

  # Convert a directory to JSONL, strict mode
  csvforge convert ./exports --output-format jsonl --strict

  # Glob input, four files at a time
  csvforge convert 'data/**/*.csv' --concurrency 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		headerRow, err := parseHeaderRow(convertHeaderRow)
		if err != nil {
			return err
		}

		var ledger *store.Ledger
		if !convertNoLedger && cfg.Ledger.Path != "" {
			l, err := store.Open(cfg.Ledger.Path)
			if err != nil {
				zap.L().Warn("ledger unavailable", zap.Error(err))
			} else if err := l.Migrate(ctx); err != nil {
				zap.L().Warn("ledger migration failed", zap.Error(err))
				_ = l.Close()
			} else {
				ledger = l
				defer l.Close() //nolint:errcheck
			}
		}

		format := convertFormat
		if format == "" {
			format = cfg.Output.Format
		}
		format, err = parseOutputFormat(format)
		if err != nil {
			return eris.Wrap(err, "convert")
		}
		outputDir := convertOutputDir
		if outputDir == "" {
			outputDir = cfg.Output.Directory
		}
		concurrency := convertConcurrency
		if concurrency == 0 {
			concurrency = cfg.Convert.Concurrency
		}

		orch := pipeline.New(cfg, ledger, zap.L())
		result, err := orch.Run(ctx, args, pipeline.Options{
			Format:        format,
			OutputDir:     outputDir,
			TypeInference: convertTypeInfer && !convertNoTypeInfer,
			Strict:        convertStrict,
			HeaderRow:     headerRow,
			Concurrency:   concurrency,
			Limit:         convertLimit,
		})
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		if result.Failed() {
			return eris.Errorf("convert: %d of %d file(s) failed, see %s", result.Summary.Failed, result.Summary.TotalFiles, result.ReportPath)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFormat, "output-format", "", "output format: json or jsonl (default from config)")
	convertCmd.Flags().StringVar(&convertOutputDir, "output-directory", "", "directory for converted files and run artifacts (default from config)")
	convertCmd.Flags().BoolVar(&convertTypeInfer, "type-inference", true, "infer column types and coerce values")
	convertCmd.Flags().BoolVar(&convertNoTypeInfer, "no-type-inference", false, "treat every column as string")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "abort a file's conversion on any validation warning")
	convertCmd.Flags().StringVar(&convertHeaderRow, "header-row", "auto", "header row: auto, -1 (none), or a row index")
	convertCmd.Flags().IntVar(&convertConcurrency, "concurrency", 0, "max files processed concurrently (default from config)")
	convertCmd.Flags().IntVar(&convertLimit, "limit", 0, "max input files to process (0 = all)")
	convertCmd.Flags().BoolVar(&convertNoLedger, "no-ledger", false, "skip the run-history ledger")
	rootCmd.AddCommand(convertCmd)
}
