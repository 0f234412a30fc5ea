// Package matcher implements the apartment matching engine: preference
// normalization, hard filtering, weighted scoring, and deterministic ranking.
package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shanewin/falkor-rentalintel/internal/config"
)

// DefaultConfig returns a config.MatchConfig with the reference defaults.
// Category weights sum to 1.0, as do the basic-requirements sub-weights.
func DefaultConfig() config.MatchConfig {
	return config.MatchConfig{
		BasicWeight:             0.60,
		BuildingAmenitiesWeight: 0.25,
		UnitAmenitiesWeight:     0.15,

		BedroomWeight:      0.25,
		BathroomWeight:     0.15,
		BudgetWeight:       0.25,
		NeighborhoodWeight: 0.20,
		PetWeight:          0.15,

		OverBudgetTolerance: 0.10,
		MoveInGraceDays:     0,

		BudgetBuckets: []config.BudgetBucket{
			{MaxOveragePct: 3, Score: 97},
			{MaxOveragePct: 6, Score: 94},
			{MaxOveragePct: 10, Score: 90},
		},

		NeighborhoodRankScores:    []float64{100, 90, 80, 70},
		RankDecay:                 10,
		RankFloor:                 50,
		UnrankedNeighborhoodScore: 40,

		MustHavePoints:   config.AmenityPoints{Present: 0, Missing: -50},
		ImportantPoints:  config.AmenityPoints{Present: 0, Missing: -15},
		NiceToHavePoints: config.AmenityPoints{Present: 5, Missing: 0},

		PetAllPetsScore:       100,
		PetFeeScore:           95,
		PetCaseByCaseScore:    80,
		PetCatsOnlyScore:      95,
		PetSmallWithinScore:   100,
		PetSmallOverScore:     60,
		DefaultPetWeightLimit: 25,

		StudioExceptionScore: 85,
		MaxResults:           20,
	}
}

// FillDefaults populates slice-valued tunables that file-based configuration
// cannot default through viper. Scalar fields are left untouched.
func FillDefaults(c config.MatchConfig) config.MatchConfig {
	def := DefaultConfig()
	if len(c.BudgetBuckets) == 0 {
		c.BudgetBuckets = def.BudgetBuckets
	}
	if len(c.NeighborhoodRankScores) == 0 {
		c.NeighborhoodRankScores = def.NeighborhoodRankScores
	}
	return c
}

// ValidateConfig checks that a MatchConfig is internally consistent. Invalid
// configuration is a startup failure, never a per-call error.
func ValidateConfig(c config.MatchConfig) error {
	var errs []string

	categorySum := c.BasicWeight + c.BuildingAmenitiesWeight + c.UnitAmenitiesWeight
	if math.Abs(categorySum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("category weights must sum to 1.0, got %.3f", categorySum))
	}
	subSum := c.BedroomWeight + c.BathroomWeight + c.BudgetWeight + c.NeighborhoodWeight + c.PetWeight
	if math.Abs(subSum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("basic sub-weights must sum to 1.0, got %.3f", subSum))
	}

	weights := map[string]float64{
		"basic_weight":              c.BasicWeight,
		"building_amenities_weight": c.BuildingAmenitiesWeight,
		"unit_amenities_weight":     c.UnitAmenitiesWeight,
		"bedroom_weight":            c.BedroomWeight,
		"bathroom_weight":           c.BathroomWeight,
		"budget_weight":             c.BudgetWeight,
		"neighborhood_weight":       c.NeighborhoodWeight,
		"pet_weight":                c.PetWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if c.OverBudgetTolerance < 0 || c.OverBudgetTolerance > 1 {
		errs = append(errs, "over_budget_tolerance must be between 0 and 1")
	}
	if c.MoveInGraceDays < 0 {
		errs = append(errs, "move_in_grace_days must be >= 0")
	}

	if len(c.BudgetBuckets) == 0 {
		errs = append(errs, "budget_buckets must not be empty")
	}
	var prev float64
	for i, b := range c.BudgetBuckets {
		if b.MaxOveragePct <= prev && i > 0 {
			errs = append(errs, "budget_buckets must have ascending max_overage_pct boundaries")
			break
		}
		if b.Score < 0 || b.Score > 100 {
			errs = append(errs, fmt.Sprintf("budget bucket score %.1f out of [0,100]", b.Score))
			break
		}
		prev = b.MaxOveragePct
	}
	if len(c.BudgetBuckets) > 0 {
		last := c.BudgetBuckets[len(c.BudgetBuckets)-1].MaxOveragePct
		if math.Abs(last-c.OverBudgetTolerance*100) > 0.01 {
			errs = append(errs, fmt.Sprintf("last budget bucket (%.1f%%) must match over_budget_tolerance (%.1f%%)", last, c.OverBudgetTolerance*100))
		}
	}

	if len(c.NeighborhoodRankScores) == 0 {
		errs = append(errs, "neighborhood_rank_scores must not be empty")
	}
	for _, s := range c.NeighborhoodRankScores {
		if s < 0 || s > 100 {
			errs = append(errs, fmt.Sprintf("neighborhood rank score %.1f out of [0,100]", s))
			break
		}
	}
	if c.RankFloor < 0 || c.RankFloor > 100 {
		errs = append(errs, "rank_floor must be between 0 and 100")
	}
	if c.UnrankedNeighborhoodScore < 0 || c.UnrankedNeighborhoodScore > 100 {
		errs = append(errs, "unranked_neighborhood_score must be between 0 and 100")
	}

	petScores := map[string]float64{
		"pet_all_pets_score":     c.PetAllPetsScore,
		"pet_fee_score":          c.PetFeeScore,
		"pet_case_by_case_score": c.PetCaseByCaseScore,
		"pet_cats_only_score":    c.PetCatsOnlyScore,
		"pet_small_within_score": c.PetSmallWithinScore,
		"pet_small_over_score":   c.PetSmallOverScore,
		"studio_exception_score": c.StudioExceptionScore,
	}
	for name, s := range petScores {
		if s < 0 || s > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}
	if c.DefaultPetWeightLimit <= 0 {
		errs = append(errs, "default_pet_weight_limit must be > 0")
	}
	if c.MaxResults < 0 {
		errs = append(errs, "max_results must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("matcher: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
