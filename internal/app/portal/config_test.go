package portal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "SHELTER_BASE_URL", "SHELTER_TIMEOUT", "POSTGRES_DSN",
		"SESSION_IDLE_MINUTES", "SECURE_COOKIE", "MATCH_HISTORY_RETENTION_DAYS",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, shelterclient.DefaultBaseURL, cfg.ShelterBaseURL)
	assert.Zero(t, cfg.ShelterTimeout)
	assert.Equal(t, time.Hour, cfg.SessionIdle)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 90*24*time.Hour, cfg.MatchHistoryRetention)
	assert.False(t, cfg.SecureCookie)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SHELTER_BASE_URL", "http://localhost:3000")
	t.Setenv("SHELTER_TIMEOUT", "15s")
	t.Setenv("SESSION_IDLE_MINUTES", "2")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.ShelterBaseURL)
	assert.Equal(t, 15*time.Second, cfg.ShelterTimeout)
	assert.Equal(t, 2*time.Minute, cfg.SessionIdle)
	assert.Equal(t, 2*time.Minute, cfg.SessionSweepInterval)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHELTER_TIMEOUT", "soon")
	_, err := LoadConfig()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("SESSION_IDLE_MINUTES", "0")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "SESSION_IDLE_MINUTES")

	clearEnv(t)
	t.Setenv("MATCH_HISTORY_RETENTION_DAYS", "-3")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "MATCH_HISTORY_RETENTION_DAYS")
}

func TestLoadEnvFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")
	// clearEnv leaves PORT set to ""; godotenv only fills unset keys
	require.NoError(t, os.Unsetenv("PORT"))

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}
