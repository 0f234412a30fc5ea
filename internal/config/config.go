package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Risk   RiskConfig   `yaml:"risk" mapstructure:"risk"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BudgetBucket maps an over-budget percentage ceiling to a sub-score.
// Buckets are evaluated in ascending order; the first bucket whose
// MaxOveragePct covers the listing's overage wins.
type BudgetBucket struct {
	MaxOveragePct float64 `yaml:"max_overage_pct" mapstructure:"max_overage_pct"`
	Score         float64 `yaml:"score" mapstructure:"score"`
}

// AmenityPoints holds the score adjustments for one priority level.
type AmenityPoints struct {
	Present float64 `yaml:"present" mapstructure:"present"`
	Missing float64 `yaml:"missing" mapstructure:"missing"`
}

// MatchConfig is the tunable weight table for the apartment matching engine.
// Category weights are fractions summing to 1.0; sub-scores are 0-100.
type MatchConfig struct {
	// Top-level category weights.
	BasicWeight             float64 `yaml:"basic_weight" mapstructure:"basic_weight"`
	BuildingAmenitiesWeight float64 `yaml:"building_amenities_weight" mapstructure:"building_amenities_weight"`
	UnitAmenitiesWeight     float64 `yaml:"unit_amenities_weight" mapstructure:"unit_amenities_weight"`

	// Sub-weights inside the basic-requirements blend.
	BedroomWeight      float64 `yaml:"bedroom_weight" mapstructure:"bedroom_weight"`
	BathroomWeight     float64 `yaml:"bathroom_weight" mapstructure:"bathroom_weight"`
	BudgetWeight       float64 `yaml:"budget_weight" mapstructure:"budget_weight"`
	NeighborhoodWeight float64 `yaml:"neighborhood_weight" mapstructure:"neighborhood_weight"`
	PetWeight          float64 `yaml:"pet_weight" mapstructure:"pet_weight"`

	// Hard-filter tolerances.
	OverBudgetTolerance float64 `yaml:"over_budget_tolerance" mapstructure:"over_budget_tolerance"`
	MoveInGraceDays     int     `yaml:"move_in_grace_days" mapstructure:"move_in_grace_days"`

	// Budget sub-score buckets for listings over budget but within tolerance.
	BudgetBuckets []BudgetBucket `yaml:"budget_buckets" mapstructure:"budget_buckets"`

	// Neighborhood rank scores: index 0 holds the score for rank 1.
	// Ranks beyond the table decay by RankDecay per rank, floored at RankFloor.
	NeighborhoodRankScores    []float64 `yaml:"neighborhood_rank_scores" mapstructure:"neighborhood_rank_scores"`
	RankDecay                 float64   `yaml:"rank_decay" mapstructure:"rank_decay"`
	RankFloor                 float64   `yaml:"rank_floor" mapstructure:"rank_floor"`
	UnrankedNeighborhoodScore float64   `yaml:"unranked_neighborhood_score" mapstructure:"unranked_neighborhood_score"`

	// Amenity points per priority level.
	MustHavePoints   AmenityPoints `yaml:"must_have_points" mapstructure:"must_have_points"`
	ImportantPoints  AmenityPoints `yaml:"important_points" mapstructure:"important_points"`
	NiceToHavePoints AmenityPoints `yaml:"nice_to_have_points" mapstructure:"nice_to_have_points"`

	// Pet policy sub-scores for pet-owning households.
	PetAllPetsScore       float64 `yaml:"pet_all_pets_score" mapstructure:"pet_all_pets_score"`
	PetFeeScore           float64 `yaml:"pet_fee_score" mapstructure:"pet_fee_score"`
	PetCaseByCaseScore    float64 `yaml:"pet_case_by_case_score" mapstructure:"pet_case_by_case_score"`
	PetCatsOnlyScore      float64 `yaml:"pet_cats_only_score" mapstructure:"pet_cats_only_score"`
	PetSmallWithinScore   float64 `yaml:"pet_small_within_score" mapstructure:"pet_small_within_score"`
	PetSmallOverScore     float64 `yaml:"pet_small_over_score" mapstructure:"pet_small_over_score"`
	DefaultPetWeightLimit float64 `yaml:"default_pet_weight_limit" mapstructure:"default_pet_weight_limit"`

	// Bedroom fit score when the studio exception admitted the listing.
	StudioExceptionScore float64 `yaml:"studio_exception_score" mapstructure:"studio_exception_score"`

	// Result shaping.
	MaxResults int `yaml:"max_results" mapstructure:"max_results"`
}

// RiskConfig is the tunable point table for the Smart Insights risk scorer.
type RiskConfig struct {
	// Affordability.
	StrongMultiple       float64 `yaml:"strong_multiple" mapstructure:"strong_multiple"`
	BorderlineMultiple   float64 `yaml:"borderline_multiple" mapstructure:"borderline_multiple"`
	RecommendedDivisor   float64 `yaml:"recommended_divisor" mapstructure:"recommended_divisor"`
	AffordStrongPoints   int     `yaml:"afford_strong_points" mapstructure:"afford_strong_points"`
	AffordBorderPoints   int     `yaml:"afford_border_points" mapstructure:"afford_border_points"`
	AffordMarginalPoints int     `yaml:"afford_marginal_points" mapstructure:"afford_marginal_points"`
	MarginalMultiple     float64 `yaml:"marginal_multiple" mapstructure:"marginal_multiple"`

	// Employment raw points. Raw points scale by EmploymentFactor before
	// capping at EmploymentCap.
	EmploymentFactor         float64 `yaml:"employment_factor" mapstructure:"employment_factor"`
	EmploymentCap            int     `yaml:"employment_cap" mapstructure:"employment_cap"`
	TenureLongPoints         int     `yaml:"tenure_long_points" mapstructure:"tenure_long_points"`
	TenureMediumPoints       int     `yaml:"tenure_medium_points" mapstructure:"tenure_medium_points"`
	StatusEmployedPoints     int     `yaml:"status_employed_points" mapstructure:"status_employed_points"`
	StatusStudentPoints      int     `yaml:"status_student_points" mapstructure:"status_student_points"`
	StatusSelfEmployedPoints int     `yaml:"status_self_employed_points" mapstructure:"status_self_employed_points"`
	MultiJobBonusPoints      int     `yaml:"multi_job_bonus_points" mapstructure:"multi_job_bonus_points"`

	// Housing-history raw points. Raw points scale by HousingFactor before
	// capping at HousingCap.
	HousingFactor        float64 `yaml:"housing_factor" mapstructure:"housing_factor"`
	HousingCap           int     `yaml:"housing_cap" mapstructure:"housing_cap"`
	TenureTwoYearPoints  int     `yaml:"tenure_two_year_points" mapstructure:"tenure_two_year_points"`
	TenureOneYearPoints  int     `yaml:"tenure_one_year_points" mapstructure:"tenure_one_year_points"`
	TenureSixMonthPoints int     `yaml:"tenure_six_month_points" mapstructure:"tenure_six_month_points"`
	LifetimeLongPoints   int     `yaml:"lifetime_long_points" mapstructure:"lifetime_long_points"`
	LifetimeMediumPoints int     `yaml:"lifetime_medium_points" mapstructure:"lifetime_medium_points"`
	RenterPoints         int     `yaml:"renter_points" mapstructure:"renter_points"`
	HomeownerPoints      int     `yaml:"homeowner_points" mapstructure:"homeowner_points"`
	LandlordRefPoints    int     `yaml:"landlord_ref_points" mapstructure:"landlord_ref_points"`

	// Verification bonuses (combined value capped at VerificationCap).
	VerifiedIncomeBonus int `yaml:"verified_income_bonus" mapstructure:"verified_income_bonus"`
	LandlordRefBonus    int `yaml:"landlord_ref_bonus" mapstructure:"landlord_ref_bonus"`
	VerificationCap     int `yaml:"verification_cap" mapstructure:"verification_cap"`

	// Red flags.
	FlagPenalty     int     `yaml:"flag_penalty" mapstructure:"flag_penalty"`
	MarketFloorRent float64 `yaml:"market_floor_rent" mapstructure:"market_floor_rent"`

	// Risk-level thresholds.
	LowRiskThreshold    int `yaml:"low_risk_threshold" mapstructure:"low_risk_threshold"`
	MediumRiskThreshold int `yaml:"medium_risk_threshold" mapstructure:"medium_risk_threshold"`
	HighRiskThreshold   int `yaml:"high_risk_threshold" mapstructure:"high_risk_threshold"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RENTALINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// SetDefaults registers every tunable with its reference default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "rentalintel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Matching weights.
	v.SetDefault("match.basic_weight", 0.60)
	v.SetDefault("match.building_amenities_weight", 0.25)
	v.SetDefault("match.unit_amenities_weight", 0.15)
	v.SetDefault("match.bedroom_weight", 0.25)
	v.SetDefault("match.bathroom_weight", 0.15)
	v.SetDefault("match.budget_weight", 0.25)
	v.SetDefault("match.neighborhood_weight", 0.20)
	v.SetDefault("match.pet_weight", 0.15)
	v.SetDefault("match.over_budget_tolerance", 0.10)
	v.SetDefault("match.move_in_grace_days", 0)
	v.SetDefault("match.neighborhood_rank_scores", []float64{100, 90, 80, 70})
	v.SetDefault("match.rank_decay", 10)
	v.SetDefault("match.rank_floor", 50)
	v.SetDefault("match.unranked_neighborhood_score", 40)
	v.SetDefault("match.must_have_points.present", 0)
	v.SetDefault("match.must_have_points.missing", -50)
	v.SetDefault("match.important_points.present", 0)
	v.SetDefault("match.important_points.missing", -15)
	v.SetDefault("match.nice_to_have_points.present", 5)
	v.SetDefault("match.nice_to_have_points.missing", 0)
	v.SetDefault("match.pet_all_pets_score", 100)
	v.SetDefault("match.pet_fee_score", 95)
	v.SetDefault("match.pet_case_by_case_score", 80)
	v.SetDefault("match.pet_cats_only_score", 95)
	v.SetDefault("match.pet_small_within_score", 100)
	v.SetDefault("match.pet_small_over_score", 60)
	v.SetDefault("match.default_pet_weight_limit", 25)
	v.SetDefault("match.studio_exception_score", 85)
	v.SetDefault("match.max_results", 20)

	// Risk point tables.
	v.SetDefault("risk.strong_multiple", 3.0)
	v.SetDefault("risk.borderline_multiple", 2.5)
	v.SetDefault("risk.marginal_multiple", 2.0)
	v.SetDefault("risk.recommended_divisor", 3.0)
	v.SetDefault("risk.afford_strong_points", 40)
	v.SetDefault("risk.afford_border_points", 25)
	v.SetDefault("risk.afford_marginal_points", 15)
	v.SetDefault("risk.employment_factor", 0.3)
	v.SetDefault("risk.employment_cap", 30)
	v.SetDefault("risk.tenure_long_points", 30)
	v.SetDefault("risk.tenure_medium_points", 20)
	v.SetDefault("risk.status_employed_points", 25)
	v.SetDefault("risk.status_student_points", 15)
	v.SetDefault("risk.status_self_employed_points", 10)
	v.SetDefault("risk.multi_job_bonus_points", 10)
	v.SetDefault("risk.housing_factor", 0.4)
	v.SetDefault("risk.housing_cap", 20)
	v.SetDefault("risk.tenure_two_year_points", 20)
	v.SetDefault("risk.tenure_one_year_points", 15)
	v.SetDefault("risk.tenure_six_month_points", 5)
	v.SetDefault("risk.lifetime_long_points", 10)
	v.SetDefault("risk.lifetime_medium_points", 5)
	v.SetDefault("risk.renter_points", 15)
	v.SetDefault("risk.homeowner_points", 10)
	v.SetDefault("risk.landlord_ref_points", 15)
	v.SetDefault("risk.verified_income_bonus", 5)
	v.SetDefault("risk.landlord_ref_bonus", 5)
	v.SetDefault("risk.verification_cap", 10)
	v.SetDefault("risk.flag_penalty", 2)
	v.SetDefault("risk.market_floor_rent", 500)
	v.SetDefault("risk.low_risk_threshold", 80)
	v.SetDefault("risk.medium_risk_threshold", 60)
	v.SetDefault("risk.high_risk_threshold", 40)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
