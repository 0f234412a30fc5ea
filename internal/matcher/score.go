package matcher

import (
	"math"

	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Score computes the 0-100 match percentage for a listing that already
// passed the hard-filter stage, along with every sub-score that fed it.
// Pure function of its inputs: identical inputs yield identical output to
// two decimal places.
func Score(cfg config.MatchConfig, prefs *Preferences, l *model.Listing) (float64, map[string]float64) {
	bedrooms := scoreBedrooms(cfg, prefs, l)
	bathrooms := scoreBathrooms(prefs, l)
	budget := scoreBudget(cfg, prefs, l)
	neighborhood := scoreNeighborhood(cfg, prefs, l)
	pets := scorePets(cfg, prefs, l)

	basic := bedrooms*cfg.BedroomWeight +
		bathrooms*cfg.BathroomWeight +
		budget*cfg.BudgetWeight +
		neighborhood*cfg.NeighborhoodWeight +
		pets*cfg.PetWeight

	building := scoreAmenities(cfg, prefs.BuildingAmenities, l.BuildingAmenities)
	unit := scoreAmenities(cfg, prefs.UnitAmenities, l.UnitAmenities)

	total := basic*cfg.BasicWeight +
		building*cfg.BuildingAmenitiesWeight +
		unit*cfg.UnitAmenitiesWeight

	total = round2(clamp(total, 0, 100))

	subs := map[string]float64{
		model.FactorBasic:             round2(clamp(basic, 0, 100)),
		model.FactorBuildingAmenities: round2(building),
		model.FactorUnitAmenities:     round2(unit),
		model.FactorBedrooms:          round2(bedrooms),
		model.FactorBathrooms:         round2(bathrooms),
		model.FactorBudget:            round2(budget),
		model.FactorNeighborhood:      round2(neighborhood),
		model.FactorPets:              round2(pets),
	}

	return total, subs
}

// scoreBedrooms rates bedroom fit. Listings surviving the hard filter are in
// range, so the only non-perfect case is a studio admitted through the
// studio exception.
func scoreBedrooms(cfg config.MatchConfig, prefs *Preferences, l *model.Listing) float64 {
	if !prefs.HasBedroomRange {
		return 100
	}
	if admittedByStudioException(prefs, l) {
		return cfg.StudioExceptionScore
	}
	return 100
}

// scoreBathrooms rates bathroom fit. The hard filter guarantees the minimum
// is met; extra bathrooms are a slight bonus signal kept at par.
func scoreBathrooms(prefs *Preferences, l *model.Listing) float64 {
	if l.Bathrooms >= prefs.MinBathrooms {
		return 100
	}
	return 0 // unreachable after HardFilter; kept for direct-call safety
}

// scoreBudget applies the tiered over-budget buckets. Within budget is a
// perfect score; overages map to discrete bucket scores, not a curve.
func scoreBudget(cfg config.MatchConfig, prefs *Preferences, l *model.Listing) float64 {
	if prefs.MaxRentBudget <= 0 || l.RentPrice <= prefs.MaxRentBudget {
		return 100
	}
	overagePct := (l.RentPrice - prefs.MaxRentBudget) / prefs.MaxRentBudget * 100
	for _, b := range cfg.BudgetBuckets {
		if overagePct <= b.MaxOveragePct {
			return b.Score
		}
	}
	return 0
}

// scoreNeighborhood applies rank-based scoring: 1st choice scores the first
// table entry, later ranks walk the table then decay toward the floor. A
// listing outside the ranked set scores the unranked value; no preferences
// at all is a neutral 100.
func scoreNeighborhood(cfg config.MatchConfig, prefs *Preferences, l *model.Listing) float64 {
	if len(prefs.Neighborhoods) == 0 {
		return 100
	}
	for _, np := range prefs.Neighborhoods {
		if np.NeighborhoodID != l.NeighborhoodID {
			continue
		}
		rank := np.Rank
		if rank >= 1 && rank <= len(cfg.NeighborhoodRankScores) {
			return cfg.NeighborhoodRankScores[rank-1]
		}
		return math.Max(cfg.RankFloor, 100-float64(rank)*cfg.RankDecay)
	}
	return cfg.UnrankedNeighborhoodScore
}

// scorePets rates pet-policy fit for the household. Pet-free households
// always score 100. Combinations the decision table excludes never reach
// here through the engine.
func scorePets(cfg config.MatchConfig, prefs *Preferences, l *model.Listing) float64 {
	if !prefs.HasPets() {
		return 100
	}
	switch l.PetPolicy {
	case model.PetPolicyAllPets:
		return cfg.PetAllPetsScore
	case model.PetPolicyPetFee:
		return cfg.PetFeeScore
	case model.PetPolicyCaseByCase:
		return cfg.PetCaseByCaseScore
	case model.PetPolicyCatsOnly:
		if prefs.CatOnlyHousehold() {
			return cfg.PetCatsOnlyScore
		}
		return 0 // excluded by HardFilter
	case model.PetPolicySmallPets:
		limit := cfg.DefaultPetWeightLimit
		if l.PetWeightLimitLbs != nil && *l.PetWeightLimitLbs > 0 {
			limit = *l.PetWeightLimitLbs
		}
		if allPetsWithinWeight(prefs.Pets, limit) {
			return cfg.PetSmallWithinScore
		}
		return cfg.PetSmallOverScore
	case model.PetPolicyNoPets:
		return 0 // excluded by HardFilter
	default:
		return cfg.PetCaseByCaseScore
	}
}

// allPetsWithinWeight reports whether every pet with a recorded weight is at
// or under the limit. Pets without weight data are given the benefit of the
// doubt.
func allPetsWithinWeight(pets []model.Pet, limitLbs float64) bool {
	for _, p := range pets {
		if p.WeightLbs != nil && *p.WeightLbs > limitLbs {
			return false
		}
	}
	return true
}

// scoreAmenities scores one amenity category. Starts from a perfect score,
// subtracts the configured penalty for each missing MustHave/Important
// amenity, adds the NiceToHave bonus for present ones, then clamps to
// [0,100]. An empty preference set is a neutral 100.
func scoreAmenities(cfg config.MatchConfig, prefs map[string]model.PriorityLevel, present []string) float64 {
	if len(prefs) == 0 {
		return 100
	}

	have := make(map[string]struct{}, len(present))
	for _, id := range present {
		have[id] = struct{}{}
	}

	score := 100.0
	for id, level := range prefs {
		_, has := have[id]
		var pts config.AmenityPoints
		switch level {
		case model.PriorityMustHave:
			pts = cfg.MustHavePoints
		case model.PriorityImportant:
			pts = cfg.ImportantPoints
		case model.PriorityNiceToHave:
			pts = cfg.NiceToHavePoints
		default:
			continue
		}
		if has {
			score += pts.Present
		} else {
			score += pts.Missing
		}
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
