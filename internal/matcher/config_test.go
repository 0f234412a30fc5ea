package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfig_WeightSums(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UnitAmenitiesWeight = 0.30
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category weights must sum to 1.0")

	cfg = DefaultConfig()
	cfg.PetWeight = 0.50
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-weights must sum to 1.0")
}

func TestValidateConfig_BudgetBuckets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BudgetBuckets = []config.BudgetBucket{
		{MaxOveragePct: 6, Score: 94},
		{MaxOveragePct: 3, Score: 97}, // descending
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ascending")

	cfg.BudgetBuckets = []config.BudgetBucket{{MaxOveragePct: 10, Score: 150}}
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of [0,100]")
}

func TestValidateConfig_BucketToleranceMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BudgetBuckets = []config.BudgetBucket{
		{MaxOveragePct: 3, Score: 97},
		{MaxOveragePct: 6, Score: 94}, // last bucket stops short of the 10% tolerance
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "over_budget_tolerance")
}

func TestValidateConfig_Tolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OverBudgetTolerance = 1.5
	assert.Error(t, ValidateConfig(cfg))

	cfg.OverBudgetTolerance = -0.1
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_CollectsMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RankFloor = 200
	cfg.MaxResults = -1
	cfg.DefaultPetWeightLimit = 0

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank_floor")
	assert.Contains(t, err.Error(), "max_results")
	assert.Contains(t, err.Error(), "default_pet_weight_limit")
}

func TestFillDefaults(t *testing.T) {
	var cfg config.MatchConfig
	filled := FillDefaults(cfg)
	assert.NotEmpty(t, filled.BudgetBuckets)
	assert.NotEmpty(t, filled.NeighborhoodRankScores)

	// Explicit values are never overwritten.
	custom := DefaultConfig()
	custom.BudgetBuckets = []config.BudgetBucket{{MaxOveragePct: 10, Score: 80}}
	assert.Equal(t, custom.BudgetBuckets, FillDefaults(custom).BudgetBuckets)
}
