package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func fptr(v float64) *float64 { return &v }

func TestSQLite_ApplicantRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &model.ApplicantProfile{
		FirstName:     "Dana",
		MaxRentBudget: fptr(3000),
		Pets:          []model.Pet{{Species: model.SpeciesCat, WeightLbs: fptr(9)}},
		Neighborhoods: []model.NeighborhoodPreference{{NeighborhoodID: "soho", Rank: 1}},
		BuildingAmenityPrefs: map[string]model.PriorityLevel{
			"gym": model.PriorityMustHave,
		},
	}
	require.NoError(t, s.PutApplicant(ctx, a))
	require.NotEmpty(t, a.ID, "PutApplicant assigns an ID")

	got, err := s.GetApplicant(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.FirstName)
	assert.Equal(t, 3000.0, *got.MaxRentBudget)
	assert.Equal(t, model.PriorityMustHave, got.BuildingAmenityPrefs["gym"])
	require.Len(t, got.Pets, 1)
	assert.Equal(t, 9.0, *got.Pets[0].WeightLbs)
}

func TestSQLite_ApplicantUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &model.ApplicantProfile{ID: "a1", FirstName: "Dana"}
	require.NoError(t, s.PutApplicant(ctx, a))

	a.FirstName = "Dana Updated"
	require.NoError(t, s.PutApplicant(ctx, a))

	got, err := s.GetApplicant(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Dana Updated", got.FirstName)

	all, err := s.ListApplicants(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_GetApplicant_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetApplicant(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListApplicants_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, s.PutApplicant(ctx, &model.ApplicantProfile{ID: id}))
	}

	limited, err := s.ListApplicants(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLite_ListingFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	listings := []model.Listing{
		{ID: "l1", RentPrice: 2500, Bedrooms: 1, Bathrooms: 1, NeighborhoodID: "soho", Status: model.ListingAvailable, AvailableDate: time.Now()},
		{ID: "l2", RentPrice: 4000, Bedrooms: 2, Bathrooms: 2, NeighborhoodID: "tribeca", Status: model.ListingAvailable, AvailableDate: time.Now()},
		{ID: "l3", RentPrice: 3000, Bedrooms: 1, Bathrooms: 1, NeighborhoodID: "soho", Status: model.ListingRented, AvailableDate: time.Now()},
	}
	for i := range listings {
		require.NoError(t, s.PutListing(ctx, &listings[i]))
	}

	available, err := s.ListListings(ctx, ListingFilter{Status: model.ListingAvailable})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	cheap, err := s.ListListings(ctx, ListingFilter{MaxRent: 2600})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "l1", cheap[0].ID)

	soho, err := s.ListListings(ctx, ListingFilter{NeighborhoodIDs: []string{"soho"}})
	require.NoError(t, err)
	assert.Len(t, soho, 2)

	combined, err := s.ListListings(ctx, ListingFilter{
		Status:          model.ListingAvailable,
		NeighborhoodIDs: []string{"soho"},
		Limit:           10,
	})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "l1", combined[0].ID)
}

func TestSQLite_PutListing_DefaultsStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	l := &model.Listing{RentPrice: 2500, Bedrooms: 1, Bathrooms: 1, NeighborhoodID: "soho"}
	require.NoError(t, s.PutListing(ctx, l))
	require.NotEmpty(t, l.ID)

	got, err := s.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ListingAvailable, got.Status)
}

func TestSQLite_Snapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results := []model.MatchResult{{ListingID: "l1", ScorePercent: 92.5, MatchLevel: "Excellent Match"}}
	require.NoError(t, s.SaveMatchResults(ctx, "a1", results))

	report := &model.RiskReport{ApplicantID: "a1", OverallScore: 87, RiskLevel: model.RiskLow}
	require.NoError(t, s.SaveRiskReport(ctx, report))
}

func TestOpen_Dispatch(t *testing.T) {
	// Unknown drivers fail fast.
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")

	// Blank driver defaults to sqlite.
	s, err := Open(context.Background(), config.StoreConfig{SQLitePath: filepath.Join(t.TempDir(), "d.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
}
