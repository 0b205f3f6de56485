package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/heatsplit/internal/engine"
)

func TestLoad_MissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Zero(t, cfg.UnitRate)
}

func TestLoad_ParsesFullConfig(t *testing.T) {
	content := `
unit_rate: 0.2061
min_baseline_kwh: 5
max_baseline_kwh: 60
max_range_span_days: 180
occupant_a_name: Sam
occupant_b_name: Riley
model:
  intercept: 50.75
  slope: -0.888
reference_window:
  start: "2025-11-01"
  end: "2026-01-31"
default_occupancy:
  a_present: true
  b_present: false
  controller: a
occupancy:
  - start: 2026-01-10T00:00:00Z
    end: 2026-01-20T00:00:00Z
    a_present: false
    b_present: true
    controller: b
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.2061, cfg.GetUnitRate())
	assert.Equal(t, engine.Bounds{MinKWh: 5, MaxKWh: 60}, cfg.GetBounds())
	assert.Equal(t, 180, cfg.GetMaxRangeSpanDays())
	assert.Equal(t, "Sam", cfg.GetOccupantAName())
	assert.Equal(t, "Riley", cfg.GetOccupantBName())

	require.NotNil(t, cfg.Model)
	assert.Equal(t, 50.75, cfg.Model.Intercept)
	assert.Equal(t, -0.888, cfg.Model.Slope)

	assert.Equal(t, "2025-11-01", cfg.ReferenceWindow.Start)

	def := cfg.GetDefaultOccupancy()
	assert.True(t, def.APresent)
	assert.False(t, def.BPresent)
	assert.Equal(t, engine.ControllerA, def.Controller)

	require.Len(t, cfg.Occupancy, 1)
	assert.True(t, cfg.Occupancy[0].BPresent)
	assert.Equal(t, engine.ControllerB, cfg.Occupancy[0].Controller)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	assert.Equal(t, engine.Bounds{MinKWh: 0, MaxKWh: 100}, cfg.GetBounds())
	assert.Equal(t, 365, cfg.GetMaxRangeSpanDays())
	assert.Equal(t, "A", cfg.GetOccupantAName())
	assert.Equal(t, "B", cfg.GetOccupantBName())
	assert.Equal(t, "heatsplit", cfg.GetTopicPrefix())

	def := cfg.GetDefaultOccupancy()
	assert.True(t, def.APresent)
	assert.True(t, def.BPresent)
	assert.Equal(t, engine.ControllerA, def.Controller)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := &Config{
		UnitRate: 0.2061,
		Model:    &engine.LinearModel{Intercept: 50.75, Slope: -0.888},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.UnitRate, loaded.UnitRate)
	require.NotNil(t, loaded.Model)
	assert.Equal(t, cfg.Model.Slope, loaded.Model.Slope)
}
