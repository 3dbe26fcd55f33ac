package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MEDIWORK_API_URL", "")
	t.Setenv("MEDIWORK_DB_FILE", "")
	t.Setenv("MEDIWORK_MASTER_KEY_FILE", "")
	t.Setenv("MEDIWORK_MASTER_KEY", "")
	t.Setenv("MEDIWORK_REFRESH_CHECK_INTERVAL", "")
	t.Setenv("MEDIWORK_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadConfig()
	require.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	require.NotEmpty(t, cfg.DatabaseFile)
	// Without an explicit key source the sealer must still be durable, so
	// the default is a real key file, not an empty path.
	require.Equal(t, "master.key", filepath.Base(cfg.MasterKeyPath))
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 60*time.Second, cfg.CheckInterval)
	require.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestMasterKeyPathYieldsToEnvKey(t *testing.T) {
	t.Setenv("MEDIWORK_MASTER_KEY_FILE", "")
	t.Setenv("MEDIWORK_MASTER_KEY", "env-master-key")

	cfg := LoadConfig()
	require.Empty(t, cfg.MasterKeyPath)
}

func TestMasterKeyFileOverride(t *testing.T) {
	t.Setenv("MEDIWORK_MASTER_KEY_FILE", "/tmp/custom.key")
	t.Setenv("MEDIWORK_MASTER_KEY", "env-master-key")

	cfg := LoadConfig()
	require.Equal(t, "/tmp/custom.key", cfg.MasterKeyPath)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MEDIWORK_API_URL", "https://medwork.example.com/api")
	t.Setenv("MEDIWORK_DB_FILE", "/tmp/medwork-test.db")
	t.Setenv("MEDIWORK_REFRESH_CHECK_INTERVAL", "15s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()
	require.Equal(t, "https://medwork.example.com/api", cfg.APIURL)
	require.Equal(t, "/tmp/medwork-test.db", cfg.DatabaseFile)
	require.Equal(t, 15*time.Second, cfg.CheckInterval)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION", "garbage")
	require.Equal(t, time.Minute, getEnvDurationOrDefault("TEST_DURATION", time.Minute))

	t.Setenv("TEST_DURATION", "90s")
	require.Equal(t, 90*time.Second, getEnvDurationOrDefault("TEST_DURATION", time.Minute))
}
