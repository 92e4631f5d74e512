package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/writer"
)

var writeJSONFormat string

var writeJSONCmd = &cobra.Command{
	Use:   "write-json <data.json> <types.json> <output_file>",
	Short: "Coerce pre-parsed rows and write JSON or JSONL",
	Long: `Runs only the writer: coerces each value per the type map and
serializes the rows to the output file.

Example:
  csvforge write-json rows.json types.json out.jsonl --format jsonl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseOutputFormat(writeJSONFormat)
		if err != nil {
			return eris.Wrap(err, "write-json")
		}

		rows, columns, err := readRowsJSON(args[0])
		if err != nil {
			return eris.Wrap(err, "write-json")
		}
		types, err := readTypesJSON(args[1])
		if err != nil {
			return eris.Wrap(err, "write-json")
		}

		result, err := writer.New(zap.L()).Write(rows, types, columns, args[2], format)
		if err != nil {
			return eris.Wrap(err, "write-json")
		}

		return writeJSONOut(result, "")
	},
}

func init() {
	writeJSONCmd.Flags().StringVar(&writeJSONFormat, "format", "json", "output format: json or jsonl")
	rootCmd.AddCommand(writeJSONCmd)
}
