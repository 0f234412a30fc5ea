package matcher

import (
	"sort"
	"time"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Preferences is the canonical scoring input derived from a raw applicant
// profile. All defaults are applied; a Preferences value never contains
// missing required data in a form the filter or scorer cannot handle.
type Preferences struct {
	ApplicantID       string
	MaxRentBudget     float64 // 0 means no budget constraint
	MinBedrooms       int
	MaxBedrooms       int
	HasBedroomRange   bool
	MinBathrooms      float64
	StudioAcceptable  bool
	DesiredMoveInDate time.Time // zero means no move-in constraint
	Pets              []model.Pet
	Neighborhoods     []model.NeighborhoodPreference // sorted by rank ascending
	BuildingAmenities map[string]model.PriorityLevel
	UnitAmenities     map[string]model.PriorityLevel

	// StrictMode gates matching on minimum profile completeness: ranked
	// neighborhoods, a positive budget, and a bedroom minimum must all be
	// present or the hard-filter stage returns zero matches.
	StrictMode bool
}

// HasPets reports whether the household includes at least one pet.
func (p *Preferences) HasPets() bool { return len(p.Pets) > 0 }

// CatOnlyHousehold reports whether every pet is a cat. False for empty
// households.
func (p *Preferences) CatOnlyHousehold() bool {
	if len(p.Pets) == 0 {
		return false
	}
	for _, pet := range p.Pets {
		if pet.Species != model.SpeciesCat {
			return false
		}
	}
	return true
}

// Normalize converts a raw applicant profile into canonical scoring input.
// It is total: missing optional data degrades to defaults (DontCare ratings,
// 1.0 minimum bathrooms, unconstrained budget) and never produces an error.
func Normalize(a *model.ApplicantProfile) Preferences {
	p := Preferences{
		ApplicantID:      a.ID,
		MinBathrooms:     1.0,
		StudioAcceptable: a.StudioAcceptable,
	}

	if a.MaxRentBudget != nil && *a.MaxRentBudget > 0 {
		p.MaxRentBudget = *a.MaxRentBudget
	}
	if a.MinBathrooms != nil && *a.MinBathrooms > 0 {
		p.MinBathrooms = *a.MinBathrooms
	}
	if a.DesiredMoveInDate != nil {
		p.DesiredMoveInDate = *a.DesiredMoveInDate
	}

	if a.MinBedrooms != nil {
		p.MinBedrooms = *a.MinBedrooms
		p.HasBedroomRange = true
		if a.MaxBedrooms != nil && *a.MaxBedrooms >= p.MinBedrooms {
			p.MaxBedrooms = *a.MaxBedrooms
		} else {
			// Open-ended upper bound when only a minimum was given.
			p.MaxBedrooms = maxBedroomBound
		}
	} else if a.MaxBedrooms != nil {
		p.MaxBedrooms = *a.MaxBedrooms
		p.HasBedroomRange = true
	}

	p.Pets = append(p.Pets, a.Pets...)

	p.Neighborhoods = append(p.Neighborhoods, a.Neighborhoods...)
	sort.SliceStable(p.Neighborhoods, func(i, j int) bool {
		if p.Neighborhoods[i].Rank != p.Neighborhoods[j].Rank {
			return p.Neighborhoods[i].Rank < p.Neighborhoods[j].Rank
		}
		return p.Neighborhoods[i].NeighborhoodID < p.Neighborhoods[j].NeighborhoodID
	})

	p.BuildingAmenities = copyPrefs(a.BuildingAmenityPrefs)
	p.UnitAmenities = copyPrefs(a.UnitAmenityPrefs)

	p.StrictMode = len(p.Neighborhoods) > 0 && p.MaxRentBudget > 0 && a.MinBedrooms != nil

	return p
}

// maxBedroomBound is the open-ended ceiling used when an applicant sets only
// a minimum bedroom count.
const maxBedroomBound = 99

func copyPrefs(src map[string]model.PriorityLevel) map[string]model.PriorityLevel {
	out := make(map[string]model.PriorityLevel, len(src))
	for id, level := range src {
		if level == model.PriorityDontCare {
			continue
		}
		out[id] = level
	}
	return out
}
