package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/employer-resolve/internal/config"
	"github.com/sells-group/employer-resolve/internal/normalize"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "employer-resolve",
	Short: "Entity resolution for free-text employer names",
	Long:  "Normalizes, blocks, and scores raw employer name strings, collapsing spelling variants onto canonical employer records.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if cfg.Normalize.RulesPath != "" {
			rules, err := normalize.LoadRules(cfg.Normalize.RulesPath)
			if err != nil {
				return fmt.Errorf("load normalization rules: %w", err)
			}
			normalize.SetDefault(normalize.NewWithRules(rules))
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
