package matcher

import (
	"sort"

	"go.uber.org/zap"

	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Engine runs the full matching pipeline: hard filter, weighted scoring,
// and deterministic ranking. It holds only configuration and performs no
// I/O; the calling layer supplies fully-resolved inputs.
type Engine struct {
	cfg config.MatchConfig
}

// NewEngine creates an Engine after validating the weight table. Invalid
// configuration fails here, at startup, never per call.
func NewEngine(cfg config.MatchConfig) (*Engine, error) {
	cfg = FillDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() config.MatchConfig { return e.cfg }

// Match filters, scores, and ranks the candidate listings for one applicant.
// The result is sorted by score descending with ties broken by listing ID
// ascending, so repeated calls over identical inputs are bit-identical.
func (e *Engine) Match(prefs Preferences, listings []model.Listing) []model.MatchResult {
	survivors := HardFilter(e.cfg, &prefs, listings)

	results := make([]model.MatchResult, 0, len(survivors))
	for i := range survivors {
		l := &survivors[i]
		total, subs := Score(e.cfg, &prefs, l)
		results = append(results, model.MatchResult{
			ListingID:             l.ID,
			ScorePercent:          total,
			SubScores:             subs,
			PassedHardFilters:     true,
			MatchLevel:            model.MatchLevelFor(total),
			RentWithinBudget:      prefs.MaxRentBudget <= 0 || l.RentPrice <= prefs.MaxRentBudget,
			PreferredNeighborhood: inPreferredNeighborhood(&prefs, l),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ScorePercent != results[j].ScorePercent {
			return results[i].ScorePercent > results[j].ScorePercent
		}
		return results[i].ListingID < results[j].ListingID
	})

	results = dedupeByListing(results)

	if e.cfg.MaxResults > 0 && len(results) > e.cfg.MaxResults {
		results = results[:e.cfg.MaxResults]
	}

	zap.L().Debug("matcher: matching complete",
		zap.String("applicant_id", prefs.ApplicantID),
		zap.Int("candidates", len(listings)),
		zap.Int("survivors", len(survivors)),
		zap.Int("returned", len(results)),
	)

	return results
}

// MatchProfile normalizes a raw profile and matches it in one call.
func (e *Engine) MatchProfile(a *model.ApplicantProfile, listings []model.Listing) []model.MatchResult {
	return e.Match(Normalize(a), listings)
}

func inPreferredNeighborhood(prefs *Preferences, l *model.Listing) bool {
	for _, np := range prefs.Neighborhoods {
		if np.NeighborhoodID == l.NeighborhoodID {
			return true
		}
	}
	return false
}

// dedupeByListing drops repeated listing IDs, keeping the first (highest
// ranked) occurrence. Input must already be sorted.
func dedupeByListing(results []model.MatchResult) []model.MatchResult {
	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		if _, ok := seen[r.ListingID]; ok {
			continue
		}
		seen[r.ListingID] = struct{}{}
		out = append(out, r)
	}
	return out
}
