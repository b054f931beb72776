package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no freqscout.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.radioreference.com", cfg.Source.BaseURL)
	assert.Equal(t, 15, cfg.Source.TimeoutSecs)
	assert.Equal(t, 300, cfg.Source.CandidateDelayMS)
	assert.Equal(t, 500, cfg.Source.ProbeDelayMS)
	assert.Equal(t, 1000, cfg.Source.VerifyDelayMS)
	assert.Equal(t, 2000, cfg.Source.StateDelayMS)
	assert.Equal(t, "https://api.zippopotam.us", cfg.Geocode.ZipBaseURL)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.NominatimBaseURL)
	assert.False(t, cfg.Geocode.Offline)
	assert.Equal(t, "countyID.db", cfg.Cache.CountyFile)
	assert.Equal(t, 24, cfg.Cache.PageTTLHours)
	assert.True(t, cfg.Renderer.Enabled)
	assert.Equal(t, 30, cfg.Renderer.TimeoutSecs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
source:
  base_url: http://localhost:8080
  candidate_delay_ms: 50
cache:
  county_file: /tmp/counties.json
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freqscout.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Source.BaseURL)
	assert.Equal(t, 50, cfg.Source.CandidateDelayMS)
	assert.Equal(t, "/tmp/counties.json", cfg.Cache.CountyFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 1000, cfg.Source.VerifyDelayMS)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freqscout.yaml"), []byte(yaml), 0644))

	t.Setenv("FREQSCOUT_LOG_LEVEL", "warn")
	t.Setenv("FREQSCOUT_SOURCE_TIMEOUT_SECS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Source.TimeoutSecs)
}

func TestDelayAccessors(t *testing.T) {
	src := SourceConfig{
		TimeoutSecs:      15,
		CandidateDelayMS: 300,
		ProbeDelayMS:     500,
		VerifyDelayMS:    1000,
		StateDelayMS:     2000,
	}
	assert.Equal(t, 15*time.Second, src.HTTPTimeout())
	assert.Equal(t, 300*time.Millisecond, src.CandidateDelay())
	assert.Equal(t, 500*time.Millisecond, src.ProbeDelay())
	assert.Equal(t, time.Second, src.VerifyDelay())
	assert.Equal(t, 2*time.Second, src.StateDelay())

	assert.Equal(t, 10*time.Second, GeocodeConfig{TimeoutSecs: 10}.HTTPTimeout())
	assert.Equal(t, 24*time.Hour, CacheConfig{PageTTLHours: 24}.PageTTL())
	assert.Equal(t, 30*time.Second, RendererConfig{TimeoutSecs: 30}.RenderTimeout())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
