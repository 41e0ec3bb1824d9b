// Package config provides YAML configuration parsing for gradebook.
//
// This package enables running gradebook as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	port: 8080
//	log_level: info
//	below_threshold: 6.0
//	autosave_interval: 1m
//
//	storage:
//	  backend: json
//	  path: ${GRADEBOOK_DATA:-students.json}
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// minAutosaveInterval is the minimum allowed autosave interval.
	minAutosaveInterval = 1 * time.Second

	defaultThreshold = 6.0
)

const (
	// BackendJSON stores snapshots in a single JSON file.
	BackendJSON = "json"

	// BackendSQLite stores snapshots in a SQLite database.
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure for gradebook.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// BelowThreshold is the default threshold for the below-average
	// listing. Must be within [0, 10]. Defaults to 6.0.
	BelowThreshold *float64 `yaml:"below_threshold"`

	// AutosaveInterval enables periodic snapshot saves.
	// Accepts duration strings like "30s", "5m". Zero or unset disables it.
	AutosaveInterval Duration `yaml:"autosave_interval"`

	// Storage selects the snapshot backend.
	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig selects where the record store is persisted.
type StorageConfig struct {
	// Backend is "json" (default) or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the snapshot file. Supports environment variable substitution:
	// ${VAR} or ${VAR:-default}. Defaults to students.json or students.db
	// depending on the backend.
	Path string `yaml:"path"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Threshold returns the configured below-average threshold.
// Only valid after [Parse] has applied defaults.
func (c *Config) Threshold() float64 {
	if c.BelowThreshold == nil {
		return defaultThreshold
	}
	return *c.BelowThreshold
}

// SlogLevel returns the configured log level as a [slog.Level].
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the storage path. Defaults are
// applied for Port (8080), LogLevel (info), BelowThreshold (6.0) and the
// storage backend (json) and path.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.BelowThreshold == nil {
		t := defaultThreshold
		cfg.BelowThreshold = &t
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendJSON
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	if t := *c.BelowThreshold; !(t >= 0 && t <= 10) {
		return fmt.Errorf("below_threshold must be between 0 and 10, got %g", t)
	}

	if c.AutosaveInterval != 0 {
		if c.AutosaveInterval.Duration() < minAutosaveInterval {
			return fmt.Errorf("autosave_interval must be at least %s, got %s",
				minAutosaveInterval, c.AutosaveInterval.Duration())
		}
	}

	switch c.Storage.Backend {
	case BackendJSON:
		if c.Storage.Path == "" {
			c.Storage.Path = "students.json"
		}
	case BackendSQLite:
		if c.Storage.Path == "" {
			c.Storage.Path = "students.db"
		}
	default:
		return fmt.Errorf("storage: backend must be %q or %q, got %q",
			BackendJSON, BackendSQLite, c.Storage.Backend)
	}

	expanded, err := expandEnvVars(c.Storage.Path)
	if err != nil {
		return fmt.Errorf("storage: path: %w", err)
	}
	if expanded == "" {
		return fmt.Errorf("storage: path is empty after expansion")
	}
	c.Storage.Path = expanded

	return nil
}
