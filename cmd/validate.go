package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/validate"
)

var (
	validateStrict          bool
	validateExpectedColumns int
	validateOutput          string
)

var validateCmd = &cobra.Command{
	Use:   "validate <data.json> <types.json>",
	Short: "Run data-quality checks over pre-parsed rows",
	Long: `Runs only the validator over a JSON array of field maps and an
inferred type map, printing issues, stats, and the pass/fail verdict.

Example:
  csvforge validate rows.json types.json --strict`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, columns, err := readRowsJSON(args[0])
		if err != nil {
			return eris.Wrap(err, "validate")
		}
		types, err := readTypesJSON(args[1])
		if err != nil {
			return eris.Wrap(err, "validate")
		}

		expected := validateExpectedColumns
		if expected <= 0 {
			expected = len(columns)
		}

		result := validate.New(zap.L()).Validate(rows, types, validateStrict, expected)
		if err := writeJSONOut(result, validateOutput); err != nil {
			return err
		}

		if !result.ValidationPassed {
			return eris.New("validate: strict validation failed")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on any warning-or-error issue")
	validateCmd.Flags().IntVar(&validateExpectedColumns, "expected-columns", 0, "expected column count (default: derived from the rows)")
	validateCmd.Flags().StringVar(&validateOutput, "output", "", "write validation result JSON to file (default: stdout)")
	rootCmd.AddCommand(validateCmd)
}
