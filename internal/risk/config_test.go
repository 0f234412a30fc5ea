package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfig_MultipleOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BorderlineMultiple = 3.5 // above strong
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "borderline_multiple")
}

func TestValidateConfig_Factors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmploymentFactor = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg = DefaultConfig()
	cfg.HousingFactor = 1.5
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_NegativePoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TenureLongPoints = -1
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenure_long_points")
}

func TestValidateConfig_ThresholdOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MediumRiskThreshold = 85 // above low threshold
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk thresholds")

	cfg = DefaultConfig()
	cfg.HighRiskThreshold = -5
	assert.Error(t, ValidateConfig(cfg))
}

func TestNewScorer_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecommendedDivisor = 0
	_, err := NewScorer(cfg)
	assert.Error(t, err)
}
