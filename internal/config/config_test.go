package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "MT5_SHARED_SECRET", "LOG_LEVEL", "DEV_MODE", "STALE_AFTER_SECONDS"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "change-me", cfg.SharedSecret)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 5*time.Minute, cfg.StaleAfter)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("MT5_SHARED_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("STALE_AFTER_SECONDS", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "s3cret", cfg.SharedSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, time.Minute, cfg.StaleAfter)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DEV_MODE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := &Config{Port: -1, SharedSecret: "x"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptySecret(t *testing.T) {
	cfg := &Config{Port: 3000, SharedSecret: ""}
	assert.Error(t, cfg.Validate())
}
