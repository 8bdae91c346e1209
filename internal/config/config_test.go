package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv blanks every key the tests touch; blank values mean "use the default".
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("WEEK_STARTS_ON", "")
	t.Setenv("TOP_PERFORMERS_LIMIT", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, time.Sunday, cfg.WeekStartsOn)
	assert.Equal(t, 5, cfg.TopPerformersLimit)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("WEEK_STARTS_ON", "MONDAY")
	t.Setenv("TOP_PERFORMERS_LIMIT", "10")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, time.Monday, cfg.WeekStartsOn)
	assert.Equal(t, 10, cfg.TopPerformersLimit)
	assert.True(t, cfg.TelegramEnabled())
	assert.True(t, cfg.TelegramDebug)
}

func TestLoad_WeekStartsOnAbbreviations(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("WEEK_STARTS_ON", " mon ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, cfg.WeekStartsOn)

	t.Setenv("WEEK_STARTS_ON", "Sun")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, cfg.WeekStartsOn)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("WEEK_STARTS_ON", "friday")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("WEEK_STARTS_ON", "monday")
	t.Setenv("TOP_PERFORMERS_LIMIT", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "nope")
	t.Setenv("CFG_TEST_BOOL", "1")
	assert.Equal(t, 7, getEnvAsInt("CFG_TEST_INT", 7))
	assert.True(t, getEnvAsBool("CFG_TEST_BOOL", false))
	assert.Equal(t, "x", getEnv("CFG_TEST_MISSING_KEY", "x"))
}
