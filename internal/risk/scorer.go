package risk

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Scorer produces Smart Insights risk reports. It holds configuration and a
// clock; everything else is a pure function of the profile. The scorer is
// total: it never fails on missing data, it degrades to zero-point
// components and Warning flags.
type Scorer struct {
	cfg config.RiskConfig
	now func() time.Time
}

// NewScorer creates a Scorer after validating the point tables.
func NewScorer(cfg config.RiskConfig) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg, now: time.Now}, nil
}

// WithClock returns a copy of the scorer using a fixed clock. Tests use this
// to pin tenure calculations.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	return &Scorer{cfg: s.cfg, now: now}
}

// Assess computes the full risk report for an applicant.
func (s *Scorer) Assess(a *model.ApplicantProfile) model.RiskReport {
	report := model.RiskReport{
		ApplicantID:    a.ID,
		Affordability:  s.assessAffordability(a),
		Employment:     s.assessEmployment(a),
		HousingHistory: s.assessHousing(a),
	}

	report.RedFlags = s.detectRedFlags(a)
	report.Recommendations = buildRecommendations(a)
	report.VerificationBonus = s.verificationBonus(a)

	afford := s.affordabilityPoints(report.Affordability)
	penalty := s.cfg.FlagPenalty * len(report.RedFlags)

	raw := afford + report.Employment.Score + report.HousingHistory.Score +
		report.VerificationBonus - penalty
	report.OverallScore = clampInt(raw, 0, 100)
	report.RiskLevel = s.riskLevel(report.OverallScore)
	report.Summary = buildSummary(&report)
	report.Confidence = confidenceLevel(a)

	zap.L().Debug("risk: assessment complete",
		zap.String("applicant_id", a.ID),
		zap.Int("overall_score", report.OverallScore),
		zap.String("risk_level", string(report.RiskLevel)),
		zap.Int("red_flags", len(report.RedFlags)),
	)

	return report
}

func (s *Scorer) assessAffordability(a *model.ApplicantProfile) model.Affordability {
	out := model.Affordability{
		Tier:    model.TierPoor,
		Details: "insufficient income information",
	}

	income := a.TotalMonthlyIncome()
	if income <= 0 {
		return out
	}

	out.RecommendedRent = round2(income / s.cfg.RecommendedDivisor)

	budget := 0.0
	if a.MaxRentBudget != nil {
		budget = *a.MaxRentBudget
	}
	if budget <= 0 {
		out.Details = fmt.Sprintf("monthly income $%.0f; recommended max rent $%.0f", income, out.RecommendedRent)
		return out
	}

	out.IncomeMultiple = income / budget
	switch {
	case out.IncomeMultiple >= s.cfg.StrongMultiple:
		out.Tier = model.TierStrong
		out.CanAfford = true
		out.Details = fmt.Sprintf("strong affordability: $%.0f/month supports $%.0f rent (%.1fx)", income, budget, out.IncomeMultiple)
	case out.IncomeMultiple >= s.cfg.BorderlineMultiple:
		out.Tier = model.TierBorderline
		out.Details = fmt.Sprintf("borderline affordability: $%.0f/month for $%.0f rent (%.1fx)", income, budget, out.IncomeMultiple)
	default:
		out.Tier = model.TierPoor
		out.Details = fmt.Sprintf("poor affordability: $%.0f/month insufficient for $%.0f rent (%.1fx)", income, budget, out.IncomeMultiple)
	}
	return out
}

// affordabilityPoints converts the affordability component into its overall
// score contribution.
func (s *Scorer) affordabilityPoints(aff model.Affordability) int {
	switch {
	case aff.CanAfford:
		return s.cfg.AffordStrongPoints
	case aff.IncomeMultiple >= s.cfg.BorderlineMultiple:
		return s.cfg.AffordBorderPoints
	case aff.IncomeMultiple >= s.cfg.MarginalMultiple && aff.IncomeMultiple > 0:
		return s.cfg.AffordMarginalPoints
	default:
		return 0
	}
}

func (s *Scorer) assessEmployment(a *model.ApplicantProfile) model.EmploymentStability {
	out := model.EmploymentStability{}

	jobCount := len(a.Jobs)
	if a.CompanyName != "" {
		jobCount++
	}
	out.JobCount = jobCount

	raw := 0
	if a.EmploymentStartDate != nil {
		months := monthsBetween(*a.EmploymentStartDate, s.now())
		out.TenureMonths = months
		switch {
		case months >= 24:
			raw += s.cfg.TenureLongPoints
			out.Strengths = append(out.Strengths, fmt.Sprintf("stable primary employment (%.1f years)", float64(months)/12))
		case months >= 12:
			raw += s.cfg.TenureMediumPoints
			out.Strengths = append(out.Strengths, fmt.Sprintf("good employment duration (%.1f years)", float64(months)/12))
		default:
			out.Concerns = append(out.Concerns, fmt.Sprintf("short employment history (%d months)", months))
		}
	}

	switch a.EmploymentStatus {
	case model.EmploymentEmployed:
		raw += s.cfg.StatusEmployedPoints
		out.Strengths = append(out.Strengths, "currently employed")
	case model.EmploymentStudent:
		raw += s.cfg.StatusStudentPoints
		out.Strengths = append(out.Strengths, "student status")
	case model.EmploymentSelfEmployed:
		raw += s.cfg.StatusSelfEmployedPoints
		out.Concerns = append(out.Concerns, "self-employed (variable income)")
	case model.EmploymentUnemployed:
		out.Concerns = append(out.Concerns, "currently unemployed")
	}

	if jobCount > 1 {
		raw += s.cfg.MultiJobBonusPoints
		out.MultiJobBonus = true
		out.Strengths = append(out.Strengths, fmt.Sprintf("multiple income sources (%d jobs)", jobCount))
	} else if jobCount == 0 {
		out.Concerns = append(out.Concerns, "no employment information provided")
	}

	out.Score = weighted(raw, s.cfg.EmploymentFactor, s.cfg.EmploymentCap)
	return out
}

func (s *Scorer) assessHousing(a *model.ApplicantProfile) model.HousingHistory {
	out := model.HousingHistory{}

	raw := 0
	tenureMonths := 0
	if a.CurrentAddressYears != nil {
		tenureMonths += *a.CurrentAddressYears * 12
	}
	if a.CurrentAddressMonths != nil {
		tenureMonths += *a.CurrentAddressMonths
	}

	switch {
	case tenureMonths >= 24:
		out.CurrentTenureScore = s.cfg.TenureTwoYearPoints
		out.Strengths = append(out.Strengths, fmt.Sprintf("stable at current address (%d months)", tenureMonths))
	case tenureMonths >= 12:
		out.CurrentTenureScore = s.cfg.TenureOneYearPoints
		out.Strengths = append(out.Strengths, fmt.Sprintf("one year at current address (%d months)", tenureMonths))
	case tenureMonths >= 6:
		out.CurrentTenureScore = s.cfg.TenureSixMonthPoints
	default:
		if tenureMonths > 0 {
			out.Concerns = append(out.Concerns, fmt.Sprintf("short duration at current address (%d months)", tenureMonths))
		}
	}
	raw += out.CurrentTenureScore

	// Cumulative lifetime history across current and previous addresses.
	total := float64(tenureMonths) / 12
	for _, prev := range a.PreviousAddresses {
		total += prev.DurationYears
	}
	out.TotalYearsHistory = round2(total)
	switch {
	case total >= 5:
		raw += s.cfg.LifetimeLongPoints
	case total >= 3:
		raw += s.cfg.LifetimeMediumPoints
	}

	switch a.HousingStatus {
	case model.HousingRenter:
		raw += s.cfg.RenterPoints
		out.Strengths = append(out.Strengths, "current renter")
	case model.HousingHomeowner:
		raw += s.cfg.HomeownerPoints
		out.Strengths = append(out.Strengths, "current homeowner")
	case model.HousingFamily:
		out.Concerns = append(out.Concerns, "living with family (limited rental experience)")
	}

	if a.CurrentLandlordName != "" {
		raw += s.cfg.LandlordRefPoints
		out.Strengths = append(out.Strengths, "landlord reference available")
	}

	if a.EvictedBefore {
		out.Concerns = append(out.Concerns, "previous eviction reported")
	}

	out.Score = weighted(raw, s.cfg.HousingFactor, s.cfg.HousingCap)
	return out
}

// detectRedFlags evaluates every flag rule independently; multiple flags may
// co-occur. Order is fixed so reports are deterministic.
func (s *Scorer) detectRedFlags(a *model.ApplicantProfile) []model.Flag {
	var flags []model.Flag

	income := a.TotalMonthlyIncome()
	if income > 0 && a.MaxRentBudget != nil && *a.MaxRentBudget > income/2 {
		flags = append(flags, model.Flag{
			Severity: model.SeverityCritical,
			Message:  "rent budget exceeds 50% of reported income",
		})
	}

	if a.Phone == "" {
		flags = append(flags, model.Flag{
			Severity: model.SeverityWarning,
			Message:  "missing phone number",
		})
	}
	if a.Email == "" {
		flags = append(flags, model.Flag{
			Severity: model.SeverityWarning,
			Message:  "missing email address",
		})
	}
	if income <= 0 {
		flags = append(flags, model.Flag{
			Severity: model.SeverityWarning,
			Message:  "no verified income information",
		})
	}

	if a.EvictedBefore {
		flags = append(flags, model.Flag{
			Severity: model.SeverityCritical,
			Message:  "previous eviction reported",
		})
	}

	if a.MaxRentBudget != nil && *a.MaxRentBudget > 0 && *a.MaxRentBudget < s.cfg.MarketFloorRent {
		flags = append(flags, model.Flag{
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("rent budget below market floor ($%.0f)", s.cfg.MarketFloorRent),
		})
	}

	return flags
}

// verificationBonus awards points for independently verifiable claims,
// capped so bonuses cannot dominate the score.
func (s *Scorer) verificationBonus(a *model.ApplicantProfile) int {
	bonus := 0
	if a.HasVerifiedIncome() {
		bonus += s.cfg.VerifiedIncomeBonus
	}
	if a.CurrentLandlordName != "" {
		bonus += s.cfg.LandlordRefBonus
	}
	if bonus > s.cfg.VerificationCap {
		bonus = s.cfg.VerificationCap
	}
	return bonus
}

func (s *Scorer) riskLevel(score int) model.RiskLevel {
	switch {
	case score >= s.cfg.LowRiskThreshold:
		return model.RiskLow
	case score >= s.cfg.MediumRiskThreshold:
		return model.RiskMedium
	case score >= s.cfg.HighRiskThreshold:
		return model.RiskHigh
	default:
		return model.RiskVeryHigh
	}
}

// buildRecommendations generates broker follow-up actions from the profile.
func buildRecommendations(a *model.ApplicantProfile) []string {
	var recs []string
	if a.AnnualIncome != nil {
		recs = append(recs, "request recent pay stubs to verify reported income")
	}
	if a.CompanyName != "" {
		recs = append(recs, "contact employer for employment verification")
	}
	if a.CurrentLandlordName != "" {
		recs = append(recs, "contact current landlord for rental reference")
	}
	recs = append(recs, "run credit check to verify financial responsibility")
	if a.AnnualIncome != nil && *a.AnnualIncome > 50_000 {
		recs = append(recs, "request bank statements for income verification")
	}
	if a.EmergencyContactName != "" {
		recs = append(recs, "verify emergency contact information")
	}
	return recs
}

func buildSummary(r *model.RiskReport) string {
	var rec string
	switch r.RiskLevel {
	case model.RiskLow:
		rec = "highly recommended"
	case model.RiskMedium:
		rec = "recommended with verification"
	case model.RiskHigh:
		rec = "proceed with caution"
	default:
		rec = "not recommended"
	}

	summary := fmt.Sprintf("%s (%s risk, score %d/100): ", rec, r.RiskLevel, r.OverallScore)
	if r.Affordability.CanAfford {
		summary += fmt.Sprintf("strong financial profile with %.1fx income coverage. ", r.Affordability.IncomeMultiple)
	} else if r.Affordability.IncomeMultiple > 0 {
		summary += fmt.Sprintf("income coverage at %.1fx. ", r.Affordability.IncomeMultiple)
	} else {
		summary += "income information incomplete. "
	}
	if n := len(r.RedFlags); n > 0 {
		summary += fmt.Sprintf("%d concern(s) identified.", n)
	} else {
		summary += "no red flags detected."
	}
	return summary
}

// confidenceLevel reflects profile data completeness, not applicant quality.
func confidenceLevel(a *model.ApplicantProfile) model.ConfidenceLevel {
	pts := 0
	if a.AnnualIncome != nil {
		pts += 25
	}
	if a.EmploymentStartDate != nil {
		pts += 20
	}
	if a.CurrentLandlordName != "" {
		pts += 15
	}
	if a.CurrentAddressYears != nil || a.CurrentAddressMonths != nil {
		pts += 15
	}
	if len(a.PreviousAddresses) > 0 {
		pts += 10
	}
	if len(a.Jobs) > 0 {
		pts += 10
	}
	if a.EmergencyContactName != "" {
		pts += 5
	}

	switch {
	case pts >= 80:
		return model.ConfidenceHigh
	case pts >= 50:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// weighted scales raw component points by factor and caps the contribution.
func weighted(raw int, factor float64, limit int) int {
	v := int(math.Round(float64(raw) * factor))
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v
}

func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := int(end.Sub(start).Hours() / 24 / 30.44)
	return months
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
