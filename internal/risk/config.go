// Package risk implements the Smart Insights scorer: a rule-based
// affordability and stability assessment over applicant profiles.
package risk

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shanewin/falkor-rentalintel/internal/config"
)

// DefaultConfig returns a config.RiskConfig with the reference point tables.
// Component caps follow the 40/30/20 weighting with up to 10 bonus points
// from verification.
func DefaultConfig() config.RiskConfig {
	return config.RiskConfig{
		StrongMultiple:       3.0,
		BorderlineMultiple:   2.5,
		MarginalMultiple:     2.0,
		RecommendedDivisor:   3.0,
		AffordStrongPoints:   40,
		AffordBorderPoints:   25,
		AffordMarginalPoints: 15,

		EmploymentFactor:         0.3,
		EmploymentCap:            30,
		TenureLongPoints:         30,
		TenureMediumPoints:       20,
		StatusEmployedPoints:     25,
		StatusStudentPoints:      15,
		StatusSelfEmployedPoints: 10,
		MultiJobBonusPoints:      10,

		HousingFactor:        0.4,
		HousingCap:           20,
		TenureTwoYearPoints:  20,
		TenureOneYearPoints:  15,
		TenureSixMonthPoints: 5,
		LifetimeLongPoints:   10,
		LifetimeMediumPoints: 5,
		RenterPoints:         15,
		HomeownerPoints:      10,
		LandlordRefPoints:    15,

		VerifiedIncomeBonus: 5,
		LandlordRefBonus:    5,
		VerificationCap:     10,

		FlagPenalty:     2,
		MarketFloorRent: 500,

		LowRiskThreshold:    80,
		MediumRiskThreshold: 60,
		HighRiskThreshold:   40,
	}
}

// ValidateConfig checks that a RiskConfig is internally consistent. Invalid
// configuration is a startup failure.
func ValidateConfig(c config.RiskConfig) error {
	var errs []string

	if c.StrongMultiple <= 0 {
		errs = append(errs, "strong_multiple must be > 0")
	}
	if c.BorderlineMultiple <= 0 || c.BorderlineMultiple > c.StrongMultiple {
		errs = append(errs, "borderline_multiple must be > 0 and <= strong_multiple")
	}
	if c.MarginalMultiple < 0 || c.MarginalMultiple > c.BorderlineMultiple {
		errs = append(errs, "marginal_multiple must be >= 0 and <= borderline_multiple")
	}
	if c.RecommendedDivisor <= 0 {
		errs = append(errs, "recommended_divisor must be > 0")
	}
	if c.EmploymentFactor <= 0 || c.EmploymentFactor > 1 {
		errs = append(errs, "employment_factor must be in (0, 1]")
	}
	if c.HousingFactor <= 0 || c.HousingFactor > 1 {
		errs = append(errs, "housing_factor must be in (0, 1]")
	}

	nonNegative := map[string]int{
		"afford_strong_points":        c.AffordStrongPoints,
		"afford_border_points":        c.AffordBorderPoints,
		"afford_marginal_points":      c.AffordMarginalPoints,
		"employment_cap":              c.EmploymentCap,
		"tenure_long_points":          c.TenureLongPoints,
		"tenure_medium_points":        c.TenureMediumPoints,
		"status_employed_points":      c.StatusEmployedPoints,
		"status_student_points":       c.StatusStudentPoints,
		"status_self_employed_points": c.StatusSelfEmployedPoints,
		"multi_job_bonus_points":      c.MultiJobBonusPoints,
		"housing_cap":                 c.HousingCap,
		"tenure_two_year_points":      c.TenureTwoYearPoints,
		"tenure_one_year_points":      c.TenureOneYearPoints,
		"tenure_six_month_points":     c.TenureSixMonthPoints,
		"lifetime_long_points":        c.LifetimeLongPoints,
		"lifetime_medium_points":      c.LifetimeMediumPoints,
		"renter_points":               c.RenterPoints,
		"homeowner_points":            c.HomeownerPoints,
		"landlord_ref_points":         c.LandlordRefPoints,
		"verified_income_bonus":       c.VerifiedIncomeBonus,
		"landlord_ref_bonus":          c.LandlordRefBonus,
		"verification_cap":            c.VerificationCap,
		"flag_penalty":                c.FlagPenalty,
	}
	for name, v := range nonNegative {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if c.MarketFloorRent < 0 {
		errs = append(errs, "market_floor_rent must be >= 0")
	}

	if c.LowRiskThreshold <= c.MediumRiskThreshold ||
		c.MediumRiskThreshold <= c.HighRiskThreshold ||
		c.HighRiskThreshold < 0 || c.LowRiskThreshold > 100 {
		errs = append(errs, "risk thresholds must satisfy 0 <= high < medium < low <= 100")
	}

	if len(errs) > 0 {
		return eris.Errorf("risk: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
