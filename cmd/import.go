package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanewin/falkor-rentalintel/internal/importer"
	"github.com/shanewin/falkor-rentalintel/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import applicants and listings into the store",
}

var importListingsCmd = &cobra.Command{
	Use:   "listings <file>",
	Short: "Import listings from a CSV, XLSX, or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		listings, err := importer.LoadListings(args[0])
		if err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		for i := range listings {
			if err := st.PutListing(ctx, &listings[i]); err != nil {
				return err
			}
		}

		zap.L().Info("listings import complete",
			zap.Int("imported", len(listings)),
			zap.String("file", args[0]),
		)
		return nil
	},
}

var importApplicantsCmd = &cobra.Command{
	Use:   "applicants <file>",
	Short: "Import applicant profiles from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applicants, err := importer.LoadApplicants(args[0])
		if err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		for i := range applicants {
			if err := st.PutApplicant(ctx, &applicants[i]); err != nil {
				return err
			}
		}

		zap.L().Info("applicants import complete",
			zap.Int("imported", len(applicants)),
			zap.String("file", args[0]),
		)
		return nil
	},
}

func init() {
	importCmd.AddCommand(importListingsCmd)
	importCmd.AddCommand(importApplicantsCmd)
	rootCmd.AddCommand(importCmd)
}
