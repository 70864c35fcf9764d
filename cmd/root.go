package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/platewise/foodscan-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "foodscan",
	Short: "Food image analysis history and statistics",
	Long:  "Sends food photos to the analysis backend, keeps a bounded local history of results, and derives rolling nutrition statistics from it.",
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
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
