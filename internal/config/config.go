// Package config loads planner settings. It uses koanf to merge an optional
// YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/roach88/induction/internal/fleet"
)

// Config holds all configuration values.
type Config struct {
	// Fixture is the fleet snapshot file. Empty means the embedded demo fleet.
	Fixture string `koanf:"fixture"`

	// DB is the plan ledger database path. Empty disables the ledger.
	DB string `koanf:"db"`

	// Addr is the HTTP listen address for serve.
	Addr string `koanf:"addr"`

	// ReferenceDate overrides the fixture's reference date (YYYY-MM-DD).
	ReferenceDate string `koanf:"reference_date"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// Environment variables, which take precedence over file values.
const (
	EnvFixture       = "INDUCTION_FIXTURE"
	EnvDB            = "INDUCTION_DB"
	EnvAddr          = "INDUCTION_ADDR"
	EnvReferenceDate = "INDUCTION_REFERENCE_DATE"
	EnvLogLevel      = "INDUCTION_LOG_LEVEL"
)

// Defaults.
const (
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"
)

// Configuration validation errors.
var (
	ErrInvalidReferenceDate = errors.New("reference_date must be YYYY-MM-DD")
	ErrInvalidLogLevel      = errors.New("log_level must be one of debug, info, warn, error")
	ErrMissingAddr          = errors.New("addr must not be empty")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{Addr: DefaultAddr, LogLevel: DefaultLogLevel}
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If the file cannot be loaded, the config is nil.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	cfg := &Config{
		Fixture:       getEnvOrDefault(EnvFixture, k.String("fixture"), ""),
		DB:            getEnvOrDefault(EnvDB, k.String("db"), ""),
		Addr:          getEnvOrDefault(EnvAddr, k.String("addr"), DefaultAddr),
		ReferenceDate: getEnvOrDefault(EnvReferenceDate, k.String("reference_date"), ""),
		LogLevel:      strings.ToLower(getEnvOrDefault(EnvLogLevel, k.String("log_level"), DefaultLogLevel)),
	}

	return cfg, cfg.Validate()
}

// getEnvOrDefault returns the environment variable value if set, otherwise
// the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// Validate checks the configuration values.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.ReferenceDate != "" {
		if _, err := fleet.ParseDate(c.ReferenceDate); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidReferenceDate, c.ReferenceDate))
		}
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel))
	}
	if c.Addr == "" {
		errs = append(errs, ErrMissingAddr)
	}

	return errs
}

// SlogLevel returns the configured log level, Info when unrecognized.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// LoadFleet loads the configured fixture, or the demo fleet when none is
// set, and applies the reference date override.
func (c *Config) LoadFleet() (fleet.Snapshot, error) {
	snap := fleet.Demo()
	if c.Fixture != "" {
		var err error
		snap, err = fleet.LoadFile(c.Fixture)
		if err != nil {
			return fleet.Snapshot{}, err
		}
	}

	if c.ReferenceDate != "" && c.ReferenceDate != snap.ReferenceDate {
		snap.ReferenceDate = c.ReferenceDate
		if err := fleet.Normalize(snap.Trains, snap.ReferenceDate); err != nil {
			return fleet.Snapshot{}, err
		}
	}
	return snap, nil
}
