package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shanewin/falkor-rentalintel/internal/cache"
	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/importer"
	"github.com/shanewin/falkor-rentalintel/internal/matcher"
	"github.com/shanewin/falkor-rentalintel/internal/model"
	"github.com/shanewin/falkor-rentalintel/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank listings for applicants",
	Long: `Runs the matching pipeline for one applicant or every stored applicant:
hard filters on non-negotiables, weighted scoring on everything else, and a
deterministic ranked result list.

Examples:
  # Match one applicant against all available listings
  match --applicant 7f3c...

  # Match against a listings file instead of the store
  match --applicant 7f3c... --listings listings.xlsx

  # Match every stored applicant and save snapshots
  match --all --save

  # Export top 10 to CSV
  match --applicant 7f3c... --limit 10 --format csv --output matches.csv`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.String("applicant", "", "applicant ID to match")
	f.Bool("all", false, "match every stored applicant")
	f.String("listings", "", "listings file (csv/xlsx/json); default is the store")
	f.Int("limit", 0, "maximum number of results (overrides config)")
	f.Float64("min-score", 0, "drop results below this score")
	f.String("format", "table", "output format: table, csv, or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("no-cache", false, "bypass the result cache")
	f.Bool("save", false, "save result snapshots to the store")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applicantID, _ := cmd.Flags().GetString("applicant")
	all, _ := cmd.Flags().GetBool("all")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	save, _ := cmd.Flags().GetBool("save")
	minScore, _ := cmd.Flags().GetFloat64("min-score")

	if applicantID == "" && !all {
		return eris.New("match: either --applicant or --all is required")
	}
	if applicantID != "" && all {
		return eris.New("match: --applicant and --all are mutually exclusive")
	}
	if format != "table" && format != "csv" && format != "json" {
		return eris.Errorf("match: --format must be table, csv, or json (got %q)", format)
	}

	matchCfg := applyMatchOverrides(cmd, cfg.Match)
	engine, err := matcher.NewEngine(matchCfg)
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

	listings, err := loadCandidateListings(ctx, cmd, st)
	if err != nil {
		return err
	}
	listingsByID := make(map[string]model.Listing, len(listings))
	for _, l := range listings {
		listingsByID[l.ID] = l
	}

	resultCache := cache.New()

	if all {
		return matchAll(ctx, st, engine, resultCache, listings, listingsByID, matchOutput{
			format: format, path: outputPath, minScore: minScore,
			noCache: noCache, save: save,
		})
	}

	applicant, err := st.GetApplicant(ctx, applicantID)
	if err != nil {
		return err
	}

	results := matchOne(engine, resultCache, applicant, listings, noCache)
	results = filterMinScore(results, minScore)

	if save {
		if err := st.SaveMatchResults(ctx, applicant.ID, results); err != nil {
			return err
		}
	}

	return outputMatchResults(results, listingsByID, format, outputPath)
}

type matchOutput struct {
	format   string
	path     string
	minScore float64
	noCache  bool
	save     bool
}

// matchAll scores every stored applicant concurrently. The engine and cache
// are safe for concurrent use; output is serialized at the end.
func matchAll(ctx context.Context, st store.Store, engine *matcher.Engine, resultCache *cache.ResultCache,
	listings []model.Listing, listingsByID map[string]model.Listing, out matchOutput) error {

	applicants, err := st.ListApplicants(ctx, 0)
	if err != nil {
		return err
	}
	if len(applicants) == 0 {
		fmt.Println("No applicants in store.")
		return nil
	}

	var mu sync.Mutex
	allResults := make(map[string][]model.MatchResult, len(applicants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range applicants {
		a := applicants[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results := filterMinScore(matchOne(engine, resultCache, &a, listings, out.noCache), out.minScore)

			if out.save {
				if err := st.SaveMatchResults(gctx, a.ID, results); err != nil {
					return err
				}
			}

			mu.Lock()
			allResults[a.ID] = results
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w, closeFn, err := openOutput(out.path)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck
	if err := writeMatchSections(w, applicants, allResults, listingsByID, out.format); err != nil {
		return err
	}

	zap.L().Info("bulk matching complete",
		zap.Int("applicants", len(applicants)),
		zap.Int("listings", len(listings)),
	)
	return nil
}

func matchOne(engine *matcher.Engine, resultCache *cache.ResultCache,
	a *model.ApplicantProfile, listings []model.Listing, noCache bool) []model.MatchResult {

	prefs := matcher.Normalize(a)
	if noCache {
		return engine.Match(prefs, listings)
	}
	key := matcher.CacheKey(&prefs, listings)
	return resultCache.GetOrCompute(key, func() []model.MatchResult {
		return engine.Match(prefs, listings)
	})
}

// loadCandidateListings reads listings from --listings if given, otherwise
// from the store. Only available listings are candidates.
func loadCandidateListings(ctx context.Context, cmd *cobra.Command, st store.Store) ([]model.Listing, error) {
	path, _ := cmd.Flags().GetString("listings")
	if path != "" {
		listings, err := importer.LoadListings(path)
		if err != nil {
			return nil, err
		}
		available := listings[:0]
		for _, l := range listings {
			if l.Status == "" || l.Status == model.ListingAvailable {
				available = append(available, l)
			}
		}
		return available, nil
	}
	return st.ListListings(ctx, store.ListingFilter{Status: model.ListingAvailable})
}

func filterMinScore(results []model.MatchResult, minScore float64) []model.MatchResult {
	if minScore <= 0 {
		return results
	}
	out := results[:0]
	for _, r := range results {
		if r.ScorePercent >= minScore {
			out = append(out, r)
		}
	}
	return out
}

// applyMatchOverrides returns a copy of the base config with CLI flag overrides applied.
func applyMatchOverrides(cmd *cobra.Command, base config.MatchConfig) config.MatchConfig {
	c := base
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		c.MaxResults = v
	}
	return c
}
