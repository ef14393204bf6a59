package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// LogLevel backs the default slog handler so LOG_LEVEL can apply after init.
var LogLevel = new(slog.LevelVar)

type Config struct {
	port string

	location     *time.Location
	databasePath string
	seedFile     string
	logLevel     slog.Level

	metricCollectionInterval time.Duration

	refreshCron    string
	fetchTimeout   time.Duration
	horizonPast    time.Duration
	horizonFuture  time.Duration
	maxOccurrences int
}

// NewConfig reads the environment. Every invalid variable is reported in the
// returned error.
func NewConfig() (*Config, error) {
	var errs []error
	fail := func(name string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	duration := func(name, fallback string) time.Duration {
		raw := os.Getenv(name)
		if raw == "" {
			raw = fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			fail(name, err)
			return 0
		}
		if d <= 0 {
			fail(name, fmt.Errorf("must be positive, got %s", raw))
			return 0
		}
		slog.Debug("env", name, d)
		return d
	}

	c := &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			if _, err := strconv.ParseUint(port, 10, 16); err != nil {
				fail("PORT", err)
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					fail("TIMEZONE", err)
					return time.Local
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				slog.Warn("DATABASE_PATH is not set, nothing will be persisted")
				return ""
			}
			if databasePath == ":memory:" {
				return databasePath
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return filepath.Clean(databasePath)
		}(),

		seedFile: func() string {
			seedFile := os.Getenv("SEED_FILE")
			if seedFile == "" {
				return ""
			}
			info, err := os.Stat(seedFile)
			switch {
			case err != nil:
				fail("SEED_FILE", err)
			case info.IsDir():
				fail("SEED_FILE", fmt.Errorf("%s is a directory", seedFile))
			}
			slog.Debug("env", "SEED_FILE", seedFile)
			return seedFile
		}(),

		logLevel: func() slog.Level {
			var level slog.Level
			raw := os.Getenv("LOG_LEVEL")
			if raw == "" {
				return slog.LevelDebug
			}
			if err := level.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
				fail("LOG_LEVEL", err)
				return slog.LevelDebug
			}
			return level
		}(),

		metricCollectionInterval: duration("METRIC_COLLECTION_INTERVAL", "15s"),

		refreshCron: func() string {
			expr := os.Getenv("REFRESH_CRON")
			if expr == "" {
				expr = "*/30 * * * *"
			}
			if _, err := cron.ParseStandard(expr); err != nil {
				fail("REFRESH_CRON", err)
			}
			slog.Debug("env", "REFRESH_CRON", expr)
			return expr
		}(),
		fetchTimeout:  duration("FETCH_TIMEOUT", "1m"),
		horizonPast:   duration("HORIZON_PAST", "720h"),
		horizonFuture: duration("HORIZON_FUTURE", "8760h"),

		maxOccurrences: func() int {
			raw := os.Getenv("MAX_OCCURRENCES")
			if raw == "" {
				return 1000
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				fail("MAX_OCCURRENCES", fmt.Errorf("must be a positive integer, got %q", raw))
				return 1000
			}
			slog.Debug("env", "MAX_OCCURRENCES", n)
			return n
		}(),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("NewConfig: %w", errors.Join(errs...))
	}
	return c, nil
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get DATABASE_PATH env, blank means memory only
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get SEED_FILE env
func (c *Config) GetSeedFile() string {
	return c.seedFile
}

// Get LOG_LEVEL env, default to debug
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get REFRESH_CRON env
func (c *Config) GetRefreshCron() string {
	return c.refreshCron
}

// Get FETCH_TIMEOUT env
func (c *Config) GetFetchTimeout() time.Duration {
	return c.fetchTimeout
}

// Get HORIZON_PAST env
func (c *Config) GetHorizonPast() time.Duration {
	return c.horizonPast
}

// Get HORIZON_FUTURE env
func (c *Config) GetHorizonFuture() time.Duration {
	return c.horizonFuture
}

// Get MAX_OCCURRENCES env
func (c *Config) GetMaxOccurrences() int {
	return c.maxOccurrences
}
