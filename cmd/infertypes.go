package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/csvforge/internal/infer"
)

var inferTypesOutput string

var inferTypesCmd = &cobra.Command{
	Use:   "infer-types <data.json>",
	Short: "Infer column types from pre-parsed rows",
	Long: `Runs only the type inference engine over a JSON array of field maps
and prints the per-column type map as JSON.

Example:
  csvforge infer-types rows.json --output types.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, columns, err := readRowsJSON(args[0])
		if err != nil {
			return eris.Wrap(err, "infer-types")
		}

		types := infer.New(cfg.Infer).Infer(rows, columns)
		return writeJSONOut(types, inferTypesOutput)
	},
}

func init() {
	inferTypesCmd.Flags().StringVar(&inferTypesOutput, "output", "", "write type map JSON to file (default: stdout)")
	rootCmd.AddCommand(inferTypesCmd)
}
