package model

// AffordabilityTier classifies income-to-rent coverage.
type AffordabilityTier string

const (
	TierStrong     AffordabilityTier = "strong"
	TierBorderline AffordabilityTier = "borderline"
	TierPoor       AffordabilityTier = "poor"
)

// RiskLevel is the broker-facing classification derived from OverallScore.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// FlagSeverity tiers a red flag.
type FlagSeverity string

const (
	SeverityCritical FlagSeverity = "critical"
	SeverityWarning  FlagSeverity = "warning"
)

// Flag is a discrete risk indicator, distinct from the continuous score.
type Flag struct {
	Severity FlagSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// Affordability holds the income-vs-budget component of a risk report.
type Affordability struct {
	IncomeMultiple  float64           `json:"income_multiple"`
	RecommendedRent float64           `json:"recommended_rent"`
	Tier            AffordabilityTier `json:"tier"`
	CanAfford       bool              `json:"can_afford"`
	Details         string            `json:"details"`
}

// EmploymentStability holds the employment component of a risk report.
// Score is the weighted contribution to the overall score, capped at 30.
type EmploymentStability struct {
	Score         int      `json:"score"`
	TenureMonths  int      `json:"tenure_months"`
	JobCount      int      `json:"job_count"`
	MultiJobBonus bool     `json:"multi_job_bonus"`
	Strengths     []string `json:"strengths,omitempty"`
	Concerns      []string `json:"concerns,omitempty"`
}

// HousingHistory holds the rental-history component of a risk report.
// Score is the weighted contribution to the overall score, capped at 20.
type HousingHistory struct {
	Score              int      `json:"score"`
	TotalYearsHistory  float64  `json:"total_years_history"`
	CurrentTenureScore int      `json:"current_tenure_score"`
	Strengths          []string `json:"strengths,omitempty"`
	Concerns           []string `json:"concerns,omitempty"`
}

// ConfidenceLevel reflects how complete the underlying profile data is.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// RiskReport is the Smart Insights output for one applicant. It is a pure
// derivation of the profile, recomputed on demand and never independently
// mutated.
type RiskReport struct {
	ApplicantID       string              `json:"applicant_id"`
	Affordability     Affordability       `json:"affordability"`
	Employment        EmploymentStability `json:"employment_stability"`
	HousingHistory    HousingHistory      `json:"housing_history"`
	RedFlags          []Flag              `json:"red_flags,omitempty"`
	Recommendations   []string            `json:"recommendations,omitempty"`
	VerificationBonus int                 `json:"verification_bonus"`
	OverallScore      int                 `json:"overall_score"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	Summary           string              `json:"summary"`
	Confidence        ConfidenceLevel     `json:"confidence"`
}

// CriticalFlagCount returns the number of critical-severity flags.
func (r *RiskReport) CriticalFlagCount() int {
	n := 0
	for _, f := range r.RedFlags {
		if f.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
