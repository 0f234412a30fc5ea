package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BasicWeight = 0.9 // category weights no longer sum to 1

	_, err := NewEngine(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category weights")
}

func TestNewEngine_FillsSliceDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BudgetBuckets = nil
	cfg.NeighborhoodRankScores = nil

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, e.Config().BudgetBuckets)
	assert.NotEmpty(t, e.Config().NeighborhoodRankScores)
}

func TestMatch_RanksByScoreDescending(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	prefs := Preferences{
		MaxRentBudget: 3000,
		MinBathrooms:  1,
		Neighborhoods: []model.NeighborhoodPreference{{NeighborhoodID: "soho", Rank: 1}},
	}

	best := availableListing("best")
	best.RentPrice = 2800

	overBudget := availableListing("over")
	overBudget.RentPrice = 3150

	wrongHood := availableListing("hood")
	wrongHood.RentPrice = 2800
	wrongHood.NeighborhoodID = "queens"

	results := e.Match(prefs, []model.Listing{wrongHood, overBudget, best})
	require.Len(t, results, 3)
	assert.Equal(t, "best", results[0].ListingID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].ScorePercent, results[i].ScorePercent)
	}
}

func TestMatch_TieBreakByListingID(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	prefs := Preferences{MinBathrooms: 1}
	a := availableListing("aaa")
	b := availableListing("bbb")

	// Identical listings score identically; order falls back to ID.
	results := e.Match(prefs, []model.Listing{b, a})
	require.Len(t, results, 2)
	assert.Equal(t, "aaa", results[0].ListingID)
	assert.Equal(t, "bbb", results[1].ListingID)
}

func TestMatch_DedupesRepeatedListingIDs(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	prefs := Preferences{MinBathrooms: 1}
	l := availableListing("dup")

	results := e.Match(prefs, []model.Listing{l, l, l})
	assert.Len(t, results, 1)
}

func TestMatch_MaxResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResults = 2
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	prefs := Preferences{MinBathrooms: 1}
	listings := []model.Listing{
		availableListing("l1"), availableListing("l2"), availableListing("l3"),
	}

	results := e.Match(prefs, listings)
	assert.Len(t, results, 2)
}

func TestMatch_OnlySurvivorsAppear(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	prefs := Preferences{
		MinBathrooms: 1,
		Pets:         []model.Pet{{Species: model.SpeciesDog}},
	}

	ok := availableListing("ok")
	excluded := availableListing("excluded")
	excluded.PetPolicy = model.PetPolicyCatsOnly

	results := e.Match(prefs, []model.Listing{ok, excluded})
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].ListingID)
	assert.True(t, results[0].PassedHardFilters)
}

func TestMatch_ResultMetadata(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	prefs := Preferences{
		MaxRentBudget: 3000,
		MinBathrooms:  1,
		Neighborhoods: []model.NeighborhoodPreference{{NeighborhoodID: "soho", Rank: 1}},
	}

	over := availableListing("over")
	over.RentPrice = 3150
	over.NeighborhoodID = "queens"

	results := e.Match(prefs, []model.Listing{over})
	require.Len(t, results, 1)
	r := results[0]
	assert.False(t, r.RentWithinBudget)
	assert.False(t, r.PreferredNeighborhood)
	assert.NotEmpty(t, r.MatchLevel)
	assert.Contains(t, r.SubScores, model.FactorBudget)
}

func TestMatchProfile_EndToEnd(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	profile := &model.ApplicantProfile{
		ID:            "a1",
		MaxRentBudget: fptr(3000),
		MinBedrooms:   iptr(1),
		Neighborhoods: []model.NeighborhoodPreference{{NeighborhoodID: "soho", Rank: 1}},
	}
	l := availableListing("l1")
	l.RentPrice = 2900

	results := e.MatchProfile(profile, []model.Listing{l})
	require.Len(t, results, 1)
	assert.Equal(t, "Excellent Match", results[0].MatchLevel)
}

func TestMatchLevels(t *testing.T) {
	assert.Equal(t, "Excellent Match", model.MatchLevelFor(90))
	assert.Equal(t, "Great Match", model.MatchLevelFor(89.99))
	assert.Equal(t, "Great Match", model.MatchLevelFor(75))
	assert.Equal(t, "Good Match", model.MatchLevelFor(60))
	assert.Equal(t, "Fair Match", model.MatchLevelFor(59.99))
}
