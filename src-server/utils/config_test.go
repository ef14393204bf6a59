package utils_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"alignify/src-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"PORT", "TIMEZONE", "DATABASE_PATH", "SEED_FILE", "LOG_LEVEL",
	"METRIC_COLLECTION_INTERVAL", "REFRESH_CRON", "FETCH_TIMEOUT",
	"HORIZON_PAST", "HORIZON_FUTURE", "MAX_OCCURRENCES",
}

// clearEnv blanks every variable the config reads, restoring them after t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnv {
		t.Setenv(name, "")
	}
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	config, err := utils.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", config.GetPort())
	assert.Equal(t, time.Local, config.GetLocation())
	assert.Empty(t, config.GetDatabasePath())
	assert.Empty(t, config.GetSeedFile())
	assert.Equal(t, slog.LevelDebug, config.GetLogLevel())
	assert.Equal(t, 15*time.Second, config.GetMetricCollectionInterval())
	assert.Equal(t, "*/30 * * * *", config.GetRefreshCron())
	assert.Equal(t, time.Minute, config.GetFetchTimeout())
	assert.Equal(t, 720*time.Hour, config.GetHorizonPast())
	assert.Equal(t, 8760*time.Hour, config.GetHorizonFuture())
	assert.Equal(t, 1000, config.GetMaxOccurrences())
}

func TestConfigValues(t *testing.T) {
	clearEnv(t)
	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("users: []\n"), 0o600))

	t.Setenv("PORT", "9000")
	t.Setenv("TIMEZONE", "Asia/Tokyo")
	t.Setenv("DATABASE_PATH", "./data/../alignify.db")
	t.Setenv("SEED_FILE", seed)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REFRESH_CRON", "0 * * * *")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("MAX_OCCURRENCES", "50")

	config, err := utils.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", config.GetPort())
	assert.Equal(t, "Asia/Tokyo", config.GetLocation().String())
	assert.Equal(t, "alignify.db", config.GetDatabasePath())
	assert.Equal(t, seed, config.GetSeedFile())
	assert.Equal(t, slog.LevelWarn, config.GetLogLevel())
	assert.Equal(t, "0 * * * *", config.GetRefreshCron())
	assert.Equal(t, 5*time.Second, config.GetFetchTimeout())
	assert.Equal(t, 50, config.GetMaxOccurrences())
}

func TestConfigMemoryDatabase(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_PATH", ":memory:")
	config, err := utils.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", config.GetDatabasePath())
}

func TestConfigErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "99999")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	t.Setenv("SEED_FILE", t.TempDir())
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("REFRESH_CRON", "every now and then")
	t.Setenv("FETCH_TIMEOUT", "-1s")
	t.Setenv("MAX_OCCURRENCES", "many")

	_, err := utils.NewConfig()
	require.Error(t, err)
	for _, name := range []string{"PORT", "TIMEZONE", "SEED_FILE", "LOG_LEVEL", "REFRESH_CRON", "FETCH_TIMEOUT", "MAX_OCCURRENCES"} {
		assert.Contains(t, err.Error(), name)
	}
}
