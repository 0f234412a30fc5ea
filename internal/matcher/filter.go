package matcher

import (
	"time"

	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// petDecision is one row of the pet-policy compatibility table.
type petDecision int

const (
	petExclude petDecision = iota // hard-filter the listing out
	petAllow                      // allowed, sub-score decided later
)

// petHousehold classifies the applicant's pets for the decision table.
type petHousehold int

const (
	householdNone petHousehold = iota
	householdCatsOnly
	householdMixed // at least one non-cat pet
)

func classifyHousehold(pets []model.Pet) petHousehold {
	if len(pets) == 0 {
		return householdNone
	}
	for _, p := range pets {
		if p.Species != model.SpeciesCat {
			return householdMixed
		}
	}
	return householdCatsOnly
}

// petPolicyTable is the explicit policy x household decision matrix. Only
// two combinations hard-exclude: no-pets buildings against any pets, and
// cats-only buildings against a household with a non-cat animal. Everything
// else passes the filter and is differentiated by sub-score.
var petPolicyTable = map[model.PetPolicy]map[petHousehold]petDecision{
	model.PetPolicyNoPets: {
		householdNone:     petAllow,
		householdCatsOnly: petExclude,
		householdMixed:    petExclude,
	},
	model.PetPolicyAllPets: {
		householdNone:     petAllow,
		householdCatsOnly: petAllow,
		householdMixed:    petAllow,
	},
	model.PetPolicyCatsOnly: {
		householdNone:     petAllow,
		householdCatsOnly: petAllow,
		householdMixed:    petExclude,
	},
	model.PetPolicyPetFee: {
		householdNone:     petAllow,
		householdCatsOnly: petAllow,
		householdMixed:    petAllow,
	},
	model.PetPolicyCaseByCase: {
		householdNone:     petAllow,
		householdCatsOnly: petAllow,
		householdMixed:    petAllow,
	},
	model.PetPolicySmallPets: {
		householdNone:     petAllow,
		householdCatsOnly: petAllow,
		householdMixed:    petAllow,
	},
}

// petAllowed resolves the decision table for a policy and household. Unknown
// policies are treated as case-by-case: allowed, penalized in scoring.
func petAllowed(policy model.PetPolicy, household petHousehold) bool {
	row, ok := petPolicyTable[policy]
	if !ok {
		return true
	}
	return row[household] == petAllow
}

// strictModeComplete reports whether a strict-mode profile carries the
// minimum completeness to match safely.
func strictModeComplete(p *Preferences) bool {
	return len(p.Neighborhoods) > 0 && p.MaxRentBudget > 0 && p.HasBedroomRange
}

// HardFilter returns the subsequence of listings satisfying every
// non-negotiable constraint. A strict-mode profile missing any of its
// required fields short-circuits to an empty, non-nil result: this is the
// all-or-nothing completeness gate, not an error.
func HardFilter(cfg config.MatchConfig, prefs *Preferences, listings []model.Listing) []model.Listing {
	out := make([]model.Listing, 0, len(listings))

	if prefs.StrictMode && !strictModeComplete(prefs) {
		return out
	}

	household := classifyHousehold(prefs.Pets)
	grace := time.Duration(cfg.MoveInGraceDays) * 24 * time.Hour

	for _, l := range listings {
		if !passesHardFilters(cfg, prefs, household, grace, &l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func passesHardFilters(cfg config.MatchConfig, prefs *Preferences, household petHousehold, grace time.Duration, l *model.Listing) bool {
	// Budget ceiling with over-budget tolerance.
	if prefs.MaxRentBudget > 0 && l.RentPrice > prefs.MaxRentBudget*(1+cfg.OverBudgetTolerance) {
		return false
	}

	// Bedroom range, with the studio exception: a 0-bedroom unit satisfies a
	// min_bedrooms=1 request only when the applicant flagged studios as
	// acceptable.
	if prefs.HasBedroomRange {
		if l.Bedrooms < prefs.MinBedrooms {
			if !(l.Bedrooms == 0 && prefs.MinBedrooms == 1 && prefs.StudioAcceptable) {
				return false
			}
		}
		if l.Bedrooms > prefs.MaxBedrooms {
			return false
		}
	}

	if l.Bathrooms < prefs.MinBathrooms {
		return false
	}

	if !petAllowed(l.PetPolicy, household) {
		return false
	}

	// Availability window.
	if !prefs.DesiredMoveInDate.IsZero() && l.AvailableDate.After(prefs.DesiredMoveInDate.Add(grace)) {
		return false
	}

	return true
}

// admittedByStudioException reports whether a listing only passed the
// bedroom filter through the studio exception. Used by the scorer to apply
// the reduced bedroom-fit score.
func admittedByStudioException(prefs *Preferences, l *model.Listing) bool {
	return prefs.HasBedroomRange && l.Bedrooms == 0 && prefs.MinBedrooms == 1 && prefs.StudioAcceptable
}
