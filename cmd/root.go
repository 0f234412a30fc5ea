package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanewin/falkor-rentalintel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rentalintel",
	Short: "Apartment matching and applicant risk scoring",
	Long:  "Scores rental listings against applicant preferences and produces affordability, stability, and red-flag reports for broker review.",
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
