package model

// Sub-score factor names used as SubScores keys.
const (
	FactorBasic             = "basic_requirements"
	FactorBuildingAmenities = "building_amenities"
	FactorUnitAmenities     = "unit_amenities"
	FactorBedrooms          = "bedrooms"
	FactorBathrooms         = "bathrooms"
	FactorBudget            = "budget"
	FactorNeighborhood      = "neighborhood"
	FactorPets              = "pets"
)

// MatchResult is the scored outcome for a single listing that survived the
// hard-filter stage. Results are pure derivations of the inputs: recomputing
// from the same profile and listing set always yields the same values.
type MatchResult struct {
	ListingID             string             `json:"listing_id"`
	ScorePercent          float64            `json:"score_percent"`
	SubScores             map[string]float64 `json:"sub_scores"`
	PassedHardFilters     bool               `json:"passed_hard_filters"`
	MatchLevel            string             `json:"match_level"`
	RentWithinBudget      bool               `json:"rent_within_budget"`
	PreferredNeighborhood bool               `json:"preferred_neighborhood"`
}

// MatchLevelFor buckets a match percentage into a broker-facing label.
func MatchLevelFor(scorePercent float64) string {
	switch {
	case scorePercent >= 90:
		return "Excellent Match"
	case scorePercent >= 75:
		return "Great Match"
	case scorePercent >= 60:
		return "Good Match"
	default:
		return "Fair Match"
	}
}
