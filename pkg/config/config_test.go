package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 128, cfg.Thresholds.Min)
	assert.Equal(t, 255, cfg.Thresholds.Max)
	assert.Equal(t, 6, cfg.Processing.ResamplingFactor)
	assert.Greater(t, cfg.Processing.NumCores, 0)
	assert.Empty(t, cfg.Regions)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
thresholds:
  min: 10
  max: 90
processing:
  resamplingFactor: 2
regions:
  - slice: 1
    x0: 0
    y0: 0
    x1: 16
    y1: 16
output:
  foregroundStl: fg.stl
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Thresholds.Min)
	assert.Equal(t, 90, cfg.Thresholds.Max)
	assert.Equal(t, 2, cfg.Processing.ResamplingFactor)
	require.Len(t, cfg.Regions, 1)
	assert.Equal(t, Region{SliceNumber: 1, X0: 0, Y0: 0, X1: 16, Y1: 16}, cfg.Regions[0])
	assert.Equal(t, "fg.stl", cfg.Output.ForegroundSTL)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Thresholds.Min = 42
	cfg.Regions = []Region{{SliceNumber: 3, X1: 8, Y1: 8}}
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds: ["), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
