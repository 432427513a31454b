package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TERMINUS_RAILWAY_TOKEN", "tok-123")
}

func TestLoadRequiresRailwayToken(t *testing.T) {
	t.Setenv("TERMINUS_RAILWAY_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TERMINUS_RAILWAY_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "UTC", cfg.Display.Timezone)
	assert.Equal(t, time.UTC, cfg.Display.Location)
	assert.Equal(t, 30*time.Second, cfg.Display.RefreshInterval)
	assert.Equal(t, 50, cfg.Logs.Limit)
	assert.Equal(t, "regex", cfg.Logs.Algorithm)
}

func TestLoadInvalidTimezoneFallsBackToUTC(t *testing.T) {
	setRequired(t)
	t.Setenv("TERMINUS_DISPLAY_TIMEZONE", "Atlantis/Nowhere")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Display.Timezone)
	assert.Equal(t, time.UTC, cfg.Display.Location)
}

func TestLoadValidTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("TERMINUS_DISPLAY_TIMEZONE", "Europe/Stockholm")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Stockholm", cfg.Display.Location.String())
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	setRequired(t)
	t.Setenv("TERMINUS_LOG_LIMIT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidIntegerUsesDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("TERMINUS_LOG_LIMIT", "plenty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Logs.Limit)
}

func TestLoadReadsFilterAndAlgorithm(t *testing.T) {
	setRequired(t)
	t.Setenv("TERMINUS_LOG_FILTER", "deploy")
	t.Setenv("TERMINUS_DISPLAY_ALGORITHM", "custom")
	t.Setenv("TERMINUS_ACTION_MAX_LENGTH", "80")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.Logs.Filter)
	assert.Equal(t, "custom", cfg.Logs.Algorithm)
	assert.Equal(t, 80, cfg.Logs.ActionMaxLength)
}
