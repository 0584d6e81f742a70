package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/history.db", cfg.HistoryDB)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, 60, cfg.RateWindowSeconds)
	assert.Equal(t, "madspace_session", cfg.SessionCookie)
	assert.Equal(t, 5*24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("FIREBASE_CONFIG", "/secrets/sa.json")
	t.Setenv("STORAGE_BUCKET", "madspace.appspot.com")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("SESSION_TTL", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/secrets/sa.json", cfg.FirebaseConfig)
	assert.Equal(t, "madspace.appspot.com", cfg.StorageBucket)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("session too long", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "720h")
		_, err := Load()
		assert.Error(t, err)
	})
}
