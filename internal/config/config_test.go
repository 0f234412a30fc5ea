package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "rentalintel.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RatePerSecond)
	assert.Equal(t, 20, cfg.Server.RateBurst)

	assert.InDelta(t, 0.60, cfg.Match.BasicWeight, 0.001)
	assert.InDelta(t, 0.25, cfg.Match.BuildingAmenitiesWeight, 0.001)
	assert.InDelta(t, 0.15, cfg.Match.UnitAmenitiesWeight, 0.001)
	assert.InDelta(t, 0.10, cfg.Match.OverBudgetTolerance, 0.001)
	assert.Equal(t, []float64{100, 90, 80, 70}, cfg.Match.NeighborhoodRankScores)
	assert.Equal(t, -50.0, cfg.Match.MustHavePoints.Missing)
	assert.Equal(t, 5.0, cfg.Match.NiceToHavePoints.Present)
	assert.Equal(t, 20, cfg.Match.MaxResults)

	assert.InDelta(t, 3.0, cfg.Risk.StrongMultiple, 0.001)
	assert.InDelta(t, 2.5, cfg.Risk.BorderlineMultiple, 0.001)
	assert.InDelta(t, 0.3, cfg.Risk.EmploymentFactor, 0.001)
	assert.InDelta(t, 0.4, cfg.Risk.HousingFactor, 0.001)
	assert.Equal(t, 40, cfg.Risk.AffordStrongPoints)
	assert.Equal(t, 2, cfg.Risk.FlagPenalty)
	assert.Equal(t, 80, cfg.Risk.LowRiskThreshold)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/rentalintel
match:
  basic_weight: 0.5
  building_amenities_weight: 0.3
  unit_amenities_weight: 0.2
risk:
  flag_penalty: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/rentalintel", cfg.Store.DatabaseURL)
	assert.InDelta(t, 0.5, cfg.Match.BasicWeight, 0.001)
	assert.Equal(t, 5, cfg.Risk.FlagPenalty)

	// Unset keys keep defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 3.0, cfg.Risk.StrongMultiple, 0.001)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("RENTALINTEL_SERVER_PORT", "9090")
	t.Setenv("RENTALINTEL_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
