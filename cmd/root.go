package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "csvforge",
	Short: "CSV to JSON conversion pipeline",
	Long:  "Detects encoding, dialect, and header structure of CSV files, infers column types with confidence scores, validates data quality, and converts to JSON or JSONL with an aggregate run report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
