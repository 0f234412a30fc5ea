package importer

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func loadApplicantsJSON(path string) ([]model.ApplicantProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var applicants []model.ApplicantProfile
	if err := json.NewDecoder(f).Decode(&applicants); err != nil {
		return nil, eris.Wrapf(err, "importer: decode %s", path)
	}
	for i := range applicants {
		if err := ValidateApplicant(&applicants[i]); err != nil {
			return nil, eris.Wrapf(err, "importer: applicant %d", i+1)
		}
	}
	return applicants, nil
}

// ValidateApplicant checks the fields an import cannot repair. Most profile
// fields are optional by design, so this only rejects records the scorers
// cannot attribute to a person.
func ValidateApplicant(a *model.ApplicantProfile) error {
	var errs []string
	if a.ID == "" {
		errs = append(errs, "id is required")
	}
	switch a.EmploymentStatus {
	case "", model.EmploymentEmployed, model.EmploymentSelfEmployed,
		model.EmploymentStudent, model.EmploymentUnemployed:
	default:
		errs = append(errs, "unknown employment_status "+string(a.EmploymentStatus))
	}
	switch a.HousingStatus {
	case "", model.HousingRenter, model.HousingHomeowner, model.HousingFamily:
	default:
		errs = append(errs, "unknown housing_status "+string(a.HousingStatus))
	}
	for _, n := range a.Neighborhoods {
		if n.NeighborhoodID == "" {
			errs = append(errs, "neighborhood preference missing neighborhood_id")
		}
		if n.Rank < 1 {
			errs = append(errs, "neighborhood rank must be >= 1")
		}
	}
	if a.MaxRentBudget != nil && *a.MaxRentBudget < 0 {
		errs = append(errs, "max_rent_budget must be >= 0")
	}
	if a.MinBedrooms != nil && a.MaxBedrooms != nil && *a.MaxBedrooms < *a.MinBedrooms {
		errs = append(errs, "max_bedrooms must be >= min_bedrooms")
	}
	if len(errs) > 0 {
		return eris.New(strings.Join(errs, "; "))
	}
	return nil
}
