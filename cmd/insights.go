package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shanewin/falkor-rentalintel/internal/risk"
	"github.com/shanewin/falkor-rentalintel/internal/store"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate a risk report for an applicant",
	Long: `Produces the Smart Insights report: affordability tier, employment and
housing stability points, red flags, verification bonus, and an overall
0-100 score with a broker recommendation.

Examples:
  insights --applicant 7f3c...
  insights --applicant 7f3c... --format json --output report.json`,
	RunE: runInsights,
}

func init() {
	f := insightsCmd.Flags()
	f.String("applicant", "", "applicant ID (required)")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save", false, "save the report snapshot to the store")
	_ = insightsCmd.MarkFlagRequired("applicant")

	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applicantID, _ := cmd.Flags().GetString("applicant")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	if format != "table" && format != "json" {
		return eris.Errorf("insights: --format must be table or json (got %q)", format)
	}

	scorer, err := risk.NewScorer(cfg.Risk)
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

	applicant, err := st.GetApplicant(ctx, applicantID)
	if err != nil {
		return err
	}

	report := scorer.Assess(applicant)

	if save {
		if err := st.SaveRiskReport(ctx, &report); err != nil {
			return err
		}
	}

	return outputRiskReport(&report, format, outputPath)
}
