package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func writeApplicants(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "applicants.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadApplicants(t *testing.T) {
	path := writeApplicants(t, `[
		{
			"id": "a1",
			"first_name": "Dana",
			"max_rent_budget": 3000,
			"min_bedrooms": 1,
			"employment_status": "employed",
			"pets": [{"species": "cat", "weight_lbs": 9}],
			"neighborhoods": [{"neighborhood_id": "soho", "rank": 1}]
		}
	]`)

	applicants, err := LoadApplicants(path)
	require.NoError(t, err)
	require.Len(t, applicants, 1)

	a := applicants[0]
	assert.Equal(t, "a1", a.ID)
	require.NotNil(t, a.MaxRentBudget)
	assert.Equal(t, 3000.0, *a.MaxRentBudget)
	assert.Equal(t, model.EmploymentEmployed, a.EmploymentStatus)
	require.Len(t, a.Pets, 1)
	assert.Equal(t, model.SpeciesCat, a.Pets[0].Species)
}

func TestLoadApplicants_RejectsNonJSON(t *testing.T) {
	_, err := LoadApplicants("applicants.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require JSON")
}

func TestLoadApplicants_MissingID(t *testing.T) {
	path := writeApplicants(t, `[{"first_name": "Dana"}]`)
	_, err := LoadApplicants(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applicant 1")
	assert.Contains(t, err.Error(), "id is required")
}

func TestValidateApplicant(t *testing.T) {
	budget := -100.0
	minBed, maxBed := 3, 1

	tests := []struct {
		name    string
		a       model.ApplicantProfile
		wantErr string
	}{
		{"valid minimal", model.ApplicantProfile{ID: "a1"}, ""},
		{"bad employment status", model.ApplicantProfile{ID: "a1", EmploymentStatus: "retired"}, "employment_status"},
		{"bad housing status", model.ApplicantProfile{ID: "a1", HousingStatus: "boat"}, "housing_status"},
		{"negative budget", model.ApplicantProfile{ID: "a1", MaxRentBudget: &budget}, "max_rent_budget"},
		{"inverted bedroom range", model.ApplicantProfile{ID: "a1", MinBedrooms: &minBed, MaxBedrooms: &maxBed}, "max_bedrooms"},
		{
			"bad neighborhood rank",
			model.ApplicantProfile{ID: "a1", Neighborhoods: []model.NeighborhoodPreference{{NeighborhoodID: "soho", Rank: 0}}},
			"rank",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateApplicant(&tt.a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
