package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/calendar"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DashboardConfig struct {
	DatabaseDriver string
	DatabaseURL    string
	HTTPAddr       string

	TelegramToken string
	TelegramDebug bool

	LogLevel           string
	WeekStartsOn       time.Weekday
	TopPerformersLimit int
	BaseAdminID        string
	BaseAdminEmail     string
	TracesToStdout     bool
}

// TelegramEnabled reports whether the manager bot should be started.
func (c *DashboardConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

var instance *DashboardConfig
var once sync.Once

// GetDashboardConfig loads the configuration once and exits the process when
// it is invalid.
func GetDashboardConfig() *DashboardConfig {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load reads .env (when present) and the process environment.
func Load() (*DashboardConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &DashboardConfig{
		DatabaseDriver:     strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		TelegramToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:      getEnvAsBool("TELEGRAM_DEBUG", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TopPerformersLimit: getEnvAsInt("TOP_PERFORMERS_LIMIT", 5),
		BaseAdminID:        getEnv("BASE_ADMIN_ID", ""),
		BaseAdminEmail:     getEnv("BASE_ADMIN_EMAIL", "admin@localhost"),
		TracesToStdout:     getEnvAsBool("OTEL_TRACES_STDOUT", false),
	}

	weekStartsOn, err := calendar.ParseWeekStart(getEnv("WEEK_STARTS_ON", ""), time.Sunday)
	if err != nil {
		return nil, fmt.Errorf("WEEK_STARTS_ON: %w", err)
	}
	cfg.WeekStartsOn = weekStartsOn

	if cfg.DatabaseURL == "" {
		return nil, errors.New("could not get database url (DATABASE_URL)")
	}
	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.TopPerformersLimit <= 0 {
		return nil, errors.New("TOP_PERFORMERS_LIMIT must be positive")
	}

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}

	return defaultVal
}
