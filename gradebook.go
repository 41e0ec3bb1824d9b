package gradebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/gradebook/internal/autosave"
	"github.com/jpalmerr/gradebook/internal/grades"
	"github.com/jpalmerr/gradebook/internal/persist"
	"github.com/jpalmerr/gradebook/internal/server"
	"github.com/jpalmerr/gradebook/internal/store"
)

const (
	defaultPort     = 8080
	defaultDataFile = "students.json"

	// finalSaveTimeout bounds the snapshot written at shutdown.
	finalSaveTimeout = 10 * time.Second
)

// Gradebook is the main orchestrator for the record store, its HTTP API and
// snapshot persistence.
//
// Gradebook is created using [New] with functional options and started with
// [Gradebook.Start]. The typical lifecycle is:
//
//	gb, err := gradebook.New(gradebook.WithJSONFile("students.json"))
//	if err != nil {
//	    slog.Error("failed to create gradebook", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	gb.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// trigger graceful shutdown and the final snapshot save.
type Gradebook struct {
	port             int
	threshold        float64
	autosaveInterval time.Duration
	logger           *slog.Logger
	openBackend      backendOpener
	store            *store.MemoryStore
}

// New creates a new [Gradebook] instance with the given options.
//
// All options have sensible defaults:
//   - Port: 8080
//   - Persistence: JSON file "students.json" in the working directory
//   - Below-average threshold: 6.0
//   - Autosave: disabled (snapshot saved at shutdown only)
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Gradebook, error) {
	cfg := &gbConfig{
		port:      defaultPort,
		threshold: grades.DefaultThreshold,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	openBackend := cfg.openBackend
	if openBackend == nil {
		openBackend = jsonFileOpener(defaultDataFile)
	}

	return &Gradebook{
		port:             cfg.port,
		threshold:        cfg.threshold,
		autosaveInterval: cfg.autosaveInterval,
		logger:           logger,
		openBackend:      openBackend,
		store:            store.NewMemoryStore(),
	}, nil
}

// Start loads the snapshot, serves the API and saves on shutdown.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The persisted snapshot is loaded into memory (missing or malformed
//     JSON snapshots start empty)
//   - The HTTP server starts on the configured port
//   - If an autosave interval is set, changes are flushed periodically
//
// After cancellation, in-flight requests are drained and the full store is
// written to the snapshot backend.
//
// Returns nil on graceful shutdown. Returns an error if the backend cannot be
// opened or loaded, if the HTTP server fails to start, or if the final save
// fails.
func (gb *Gradebook) Start(ctx context.Context) (err error) {
	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	backend, err := gb.openBackend(gb.logger)
	if err != nil {
		return fmt.Errorf("failed to open snapshot backend: %w", err)
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close snapshot backend: %w", closeErr))
		}
	}()

	students, err := backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	gb.store.Replace(students)
	gb.logger.Info("gradebook starting", "students", len(students))

	httpServer := server.NewServer(gb.store, gb.port, gb.threshold, gb.logger)
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	gb.logger.Info("api available", "url", fmt.Sprintf("http://localhost:%d", gb.port))

	var saver *autosave.Saver
	if gb.autosaveInterval > 0 {
		saver = autosave.NewSaver(gb.store, backend, gb.autosaveInterval, gb.logger)
		saver.Start(ctx)
		gb.logger.Info("autosave configured", "interval", gb.autosaveInterval.String())
	}

	<-ctx.Done()

	if saver != nil {
		saver.Stop()
	}
	httpServer.Wait()

	if err := gb.save(backend); err != nil {
		return err
	}
	gb.logger.Info("gradebook stopped")
	return nil
}

// save writes the full store to backend with a bounded timeout.
func (gb *Gradebook) save(backend persist.Snapshotter) error {
	saveCtx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
	defer cancel()

	students := gb.store.All()
	if err := backend.Save(saveCtx, students); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	gb.logger.Info("snapshot saved", "students", len(students))
	return nil
}

// Port returns the configured HTTP port.
func (gb *Gradebook) Port() int {
	return gb.port
}

// BelowThreshold returns the default threshold used by the below-average listing.
func (gb *Gradebook) BelowThreshold() float64 {
	return gb.threshold
}

// AutosaveInterval returns the autosave interval, or 0 when disabled.
func (gb *Gradebook) AutosaveInterval() time.Duration {
	return gb.autosaveInterval
}
