package gradebook

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/gradebook/internal/grades"
	"github.com/jpalmerr/gradebook/internal/persist"
)

// minAutosaveInterval prevents accidental write storms on the snapshot file.
const minAutosaveInterval = time.Second

// backendOpener opens a snapshot backend when the gradebook starts.
type backendOpener func(logger *slog.Logger) (persist.Snapshotter, error)

// gbConfig holds mutable state during Gradebook construction.
type gbConfig struct {
	port             int
	threshold        float64
	autosaveInterval time.Duration
	logger           *slog.Logger
	openBackend      backendOpener
}

// Option is a function that configures a [Gradebook] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*gbConfig) error

// WithPort sets the HTTP port for the API server.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *gbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Gradebook instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *gbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithJSONFile persists snapshots to a JSON file at path.
//
// The file is keyed by stringified student id. A missing or malformed file
// at startup is treated as an empty gradebook.
//
// Returns an error if path is empty.
func WithJSONFile(path string) Option {
	return func(cfg *gbConfig) error {
		if path == "" {
			return errors.New("json file path cannot be empty")
		}
		cfg.openBackend = jsonFileOpener(path)
		return nil
	}
}

// WithSQLiteFile persists snapshots to a SQLite database at path.
//
// Returns an error if path is empty.
func WithSQLiteFile(path string) Option {
	return func(cfg *gbConfig) error {
		if path == "" {
			return errors.New("sqlite file path cannot be empty")
		}
		cfg.openBackend = func(*slog.Logger) (persist.Snapshotter, error) {
			return persist.NewSQLite(path)
		}
		return nil
	}
}

// WithAutosaveInterval flushes changes to the snapshot backend periodically,
// in addition to the save at shutdown.
//
// A zero duration disables autosave (the default).
//
// Returns an error if the duration is negative or below one second.
func WithAutosaveInterval(d time.Duration) Option {
	return func(cfg *gbConfig) error {
		if d < 0 {
			return errors.New("autosave interval cannot be negative")
		}
		if d > 0 && d < minAutosaveInterval {
			return fmt.Errorf("autosave interval must be at least %s, got %s", minAutosaveInterval, d)
		}
		cfg.autosaveInterval = d
		return nil
	}
}

// WithBelowThreshold sets the default threshold for the below-average listing.
//
// Subjects with a grade strictly below the threshold are flagged. Defaults
// to 6.0.
//
// Returns an error if the threshold is outside [0, 10].
func WithBelowThreshold(threshold float64) Option {
	return func(cfg *gbConfig) error {
		if !grades.ValidGrade(threshold) {
			return fmt.Errorf("below threshold must be between %g and %g, got %g",
				grades.MinGrade, grades.MaxGrade, threshold)
		}
		cfg.threshold = threshold
		return nil
	}
}

// withBackend injects an already-open snapshot backend.
func withBackend(backend persist.Snapshotter) Option {
	return func(cfg *gbConfig) error {
		cfg.openBackend = func(*slog.Logger) (persist.Snapshotter, error) {
			return backend, nil
		}
		return nil
	}
}

// jsonFileOpener returns an opener for a JSON snapshot file.
func jsonFileOpener(path string) backendOpener {
	return func(logger *slog.Logger) (persist.Snapshotter, error) {
		return persist.NewJSONFile(path, logger), nil
	}
}
