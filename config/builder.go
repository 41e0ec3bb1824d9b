package config

import (
	"fmt"
	"log/slog"

	"github.com/jpalmerr/gradebook"
	"github.com/jpalmerr/gradebook/internal/persist"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is passed through as [gradebook.WithLogger].
func BuildOptions(cfg *Config, logger *slog.Logger) ([]gradebook.Option, error) {
	opts := []gradebook.Option{
		gradebook.WithPort(cfg.Port),
		gradebook.WithBelowThreshold(cfg.Threshold()),
		gradebook.WithAutosaveInterval(cfg.AutosaveInterval.Duration()),
	}
	if logger != nil {
		opts = append(opts, gradebook.WithLogger(logger))
	}

	switch cfg.Storage.Backend {
	case BackendJSON:
		opts = append(opts, gradebook.WithJSONFile(cfg.Storage.Path))
	case BackendSQLite:
		opts = append(opts, gradebook.WithSQLiteFile(cfg.Storage.Path))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return opts, nil
}

// OpenSnapshotter opens the configured snapshot backend directly, for offline
// commands that work on the persisted data without starting the server.
func OpenSnapshotter(cfg *Config, logger *slog.Logger) (persist.Snapshotter, error) {
	switch cfg.Storage.Backend {
	case BackendJSON:
		return persist.NewJSONFile(cfg.Storage.Path, logger), nil
	case BackendSQLite:
		return persist.NewSQLite(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
