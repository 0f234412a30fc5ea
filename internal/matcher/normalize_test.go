package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestNormalize_EmptyProfile(t *testing.T) {
	p := Normalize(&model.ApplicantProfile{ID: "a1"})

	assert.Equal(t, "a1", p.ApplicantID)
	assert.Equal(t, 0.0, p.MaxRentBudget)
	assert.False(t, p.HasBedroomRange)
	assert.Equal(t, 1.0, p.MinBathrooms)
	assert.True(t, p.DesiredMoveInDate.IsZero())
	assert.False(t, p.StrictMode)
	assert.Empty(t, p.Pets)
	assert.Empty(t, p.Neighborhoods)
	assert.Empty(t, p.BuildingAmenities)
}

func TestNormalize_OpenEndedBedroomRange(t *testing.T) {
	p := Normalize(&model.ApplicantProfile{ID: "a1", MinBedrooms: iptr(2)})

	assert.True(t, p.HasBedroomRange)
	assert.Equal(t, 2, p.MinBedrooms)
	assert.Equal(t, maxBedroomBound, p.MaxBedrooms)
}

func TestNormalize_MaxBelowMinIgnored(t *testing.T) {
	p := Normalize(&model.ApplicantProfile{ID: "a1", MinBedrooms: iptr(3), MaxBedrooms: iptr(1)})

	assert.Equal(t, 3, p.MinBedrooms)
	assert.Equal(t, maxBedroomBound, p.MaxBedrooms)
}

func TestNormalize_SortsNeighborhoodsByRank(t *testing.T) {
	p := Normalize(&model.ApplicantProfile{
		ID: "a1",
		Neighborhoods: []model.NeighborhoodPreference{
			{NeighborhoodID: "soho", Rank: 3},
			{NeighborhoodID: "chelsea", Rank: 1},
			{NeighborhoodID: "tribeca", Rank: 2},
		},
	})

	require.Len(t, p.Neighborhoods, 3)
	assert.Equal(t, "chelsea", p.Neighborhoods[0].NeighborhoodID)
	assert.Equal(t, "tribeca", p.Neighborhoods[1].NeighborhoodID)
	assert.Equal(t, "soho", p.Neighborhoods[2].NeighborhoodID)
}

func TestNormalize_StripsDontCareAmenities(t *testing.T) {
	p := Normalize(&model.ApplicantProfile{
		ID: "a1",
		BuildingAmenityPrefs: map[string]model.PriorityLevel{
			"gym":      model.PriorityMustHave,
			"doorman":  model.PriorityDontCare,
			"elevator": model.PriorityNiceToHave,
		},
	})

	assert.Len(t, p.BuildingAmenities, 2)
	assert.NotContains(t, p.BuildingAmenities, "doorman")
	assert.Equal(t, model.PriorityMustHave, p.BuildingAmenities["gym"])
}

func TestNormalize_StrictModeDerivation(t *testing.T) {
	complete := &model.ApplicantProfile{
		ID:            "a1",
		MaxRentBudget: fptr(3000),
		MinBedrooms:   iptr(1),
		Neighborhoods: []model.NeighborhoodPreference{{NeighborhoodID: "soho", Rank: 1}},
	}
	assert.True(t, Normalize(complete).StrictMode)

	noBudget := *complete
	noBudget.MaxRentBudget = nil
	assert.False(t, Normalize(&noBudget).StrictMode)

	noBedrooms := *complete
	noBedrooms.MinBedrooms = nil
	assert.False(t, Normalize(&noBedrooms).StrictMode)

	noNeighborhoods := *complete
	noNeighborhoods.Neighborhoods = nil
	assert.False(t, Normalize(&noNeighborhoods).StrictMode)
}

func TestNormalize_DoesNotAliasProfileSlices(t *testing.T) {
	profile := &model.ApplicantProfile{
		ID:   "a1",
		Pets: []model.Pet{{Species: model.SpeciesCat}},
		BuildingAmenityPrefs: map[string]model.PriorityLevel{
			"gym": model.PriorityImportant,
		},
	}
	p := Normalize(profile)

	profile.BuildingAmenityPrefs["gym"] = model.PriorityDontCare
	assert.Equal(t, model.PriorityImportant, p.BuildingAmenities["gym"])
}

func TestCatOnlyHousehold(t *testing.T) {
	empty := Preferences{}
	assert.False(t, empty.CatOnlyHousehold())

	cats := Preferences{Pets: []model.Pet{{Species: model.SpeciesCat}, {Species: model.SpeciesCat}}}
	assert.True(t, cats.CatOnlyHousehold())

	mixed := Preferences{Pets: []model.Pet{{Species: model.SpeciesCat}, {Species: model.SpeciesDog}}}
	assert.False(t, mixed.CatOnlyHousehold())
}

func TestNormalize_MoveInDate(t *testing.T) {
	d := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p := Normalize(&model.ApplicantProfile{ID: "a1", DesiredMoveInDate: &d})
	assert.Equal(t, d, p.DesiredMoveInDate)
}
