package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// moneyPrinter renders dollar amounts with thousands separators for the
// table output.
var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("$%.0f", v)
}

// openOutput returns the destination writer and a close function. An empty
// path means stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

func outputMatchResults(results []model.MatchResult, listings map[string]model.Listing, format, path string) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	return renderMatchResults(w, results, listings, format)
}

func renderMatchResults(w io.Writer, results []model.MatchResult, listings map[string]model.Listing, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(results), "encode match results")
	case "csv":
		return writeMatchCSV(w, results, listings)
	default:
		printMatchTable(w, results, listings)
		return nil
	}
}

// writeMatchSections renders one section per applicant to a single writer so
// a file destination accumulates every applicant instead of only the last.
func writeMatchSections(w io.Writer, applicants []model.ApplicantProfile, results map[string][]model.MatchResult,
	listings map[string]model.Listing, format string) error {

	for _, a := range applicants {
		fmt.Fprintf(w, "\n== applicant %s ==\n", a.ID)
		if err := renderMatchResults(w, results[a.ID], listings, format); err != nil {
			return err
		}
	}
	return nil
}

func writeMatchCSV(w io.Writer, results []model.MatchResult, listings map[string]model.Listing) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "listing_id", "building", "rent", "score", "level", "within_budget", "preferred_neighborhood"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for i, r := range results {
		l := listings[r.ListingID]
		row := []string{
			strconv.Itoa(i + 1),
			r.ListingID,
			l.BuildingName,
			fmt.Sprintf("%.2f", l.RentPrice),
			fmt.Sprintf("%.2f", r.ScorePercent),
			r.MatchLevel,
			strconv.FormatBool(r.RentWithinBudget),
			strconv.FormatBool(r.PreferredNeighborhood),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "flush csv")
}

func printMatchTable(w io.Writer, results []model.MatchResult, listings map[string]model.Listing) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching listings.")
		return
	}

	fmt.Fprintf(w, "%-4s %-24s %-20s %10s %8s %-10s\n", "#", "LISTING", "BUILDING", "RENT", "SCORE", "LEVEL")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, r := range results {
		l := listings[r.ListingID]
		name := l.BuildingName
		if name == "" {
			name = l.Address
		}
		fmt.Fprintf(w, "%-4d %-24s %-20s %10s %8.2f %-10s\n",
			i+1, truncate(r.ListingID, 24), truncate(name, 20),
			formatMoney(l.RentPrice), r.ScorePercent, r.MatchLevel)
	}
}

func outputRiskReport(report *model.RiskReport, format, path string) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(report), "encode risk report")
	}

	printRiskReport(w, report)
	return nil
}

func printRiskReport(w io.Writer, r *model.RiskReport) {
	fmt.Fprintf(w, "Applicant:   %s\n", r.ApplicantID)
	fmt.Fprintf(w, "Score:       %d/100 (%s risk)\n", r.OverallScore, r.RiskLevel)
	fmt.Fprintf(w, "Confidence:  %s\n", r.Confidence)
	fmt.Fprintf(w, "Summary:     %s\n", r.Summary)

	fmt.Fprintf(w, "\nAffordability: %s\n", r.Affordability.Tier)
	if r.Affordability.IncomeMultiple > 0 {
		fmt.Fprintf(w, "  income multiple:  %.1fx\n", r.Affordability.IncomeMultiple)
	}
	if r.Affordability.RecommendedRent > 0 {
		fmt.Fprintf(w, "  recommended rent: %s\n", formatMoney(r.Affordability.RecommendedRent))
	}
	fmt.Fprintf(w, "  %s\n", r.Affordability.Details)

	fmt.Fprintf(w, "\nEmployment:    %d points\n", r.Employment.Score)
	for _, s := range r.Employment.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, c := range r.Employment.Concerns {
		fmt.Fprintf(w, "  - %s\n", c)
	}

	fmt.Fprintf(w, "\nHousing:       %d points\n", r.HousingHistory.Score)
	for _, s := range r.HousingHistory.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, c := range r.HousingHistory.Concerns {
		fmt.Fprintf(w, "  - %s\n", c)
	}

	if len(r.RedFlags) > 0 {
		fmt.Fprintf(w, "\nRed flags (%d):\n", len(r.RedFlags))
		for _, f := range r.RedFlags {
			fmt.Fprintf(w, "  [%s] %s\n", f.Severity, f.Message)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommended follow-ups:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  * %s\n", rec)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
