package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/gradebook/internal/persist"
	"github.com/jpalmerr/gradebook/internal/store"
)

// Saver flushes a store to a [persist.Snapshotter] on a fixed interval.
type Saver struct {
	store    store.Store
	backend  persist.Snapshotter
	interval time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	started     bool
	stopped     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	lastVersion uint64
	saves       int
}

// NewSaver creates a [Saver].
//
// Parameters:
//   - st: Store to snapshot
//   - backend: Destination for snapshots
//   - interval: Time between checks; must be positive
//   - logger: Logger for save failures
//
// The saver must be started with [Saver.Start] and stopped with [Saver.Stop].
func NewSaver(st store.Store, backend persist.Snapshotter, interval time.Duration, logger *slog.Logger) *Saver {
	return &Saver{
		store:       st,
		backend:     backend,
		interval:    interval,
		logger:      logger,
		lastVersion: st.Version(),
	}
}

// Start begins the save loop in a background goroutine.
//
// Start is idempotent; subsequent calls after the first are no-ops. If Stop
// was called before Start, Start is a no-op. If ctx is nil,
// context.Background() is used.
func (s *Saver) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if err := s.flushIfChanged(loopCtx); err != nil {
					s.logger.Error("autosave failed", "error", err)
				}
			}
		}
	}()
}

// Stop halts the save loop and waits for an in-flight save to finish.
//
// Stop is idempotent and safe to call before Start.
func (s *Saver) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Saves returns the number of snapshots written so far.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// flushIfChanged writes a snapshot when the store version moved.
//
// The version is read before taking the snapshot, so a mutation racing with
// the save is picked up by the next tick.
func (s *Saver) flushIfChanged(ctx context.Context) (err error) {
	version := s.store.Version()

	s.mu.Lock()
	unchanged := version == s.lastVersion
	s.mu.Unlock()
	if unchanged {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.logger.Error("autosave panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("autosave panic (correlation_id: %s)", correlationID)
		}
	}()

	students := s.store.All()
	if err := s.backend.Save(ctx, students); err != nil {
		return fmt.Errorf("failed to save %d students: %w", len(students), err)
	}

	s.mu.Lock()
	s.lastVersion = version
	s.saves++
	s.mu.Unlock()

	s.logger.Debug("autosave completed", "students", len(students), "version", version)
	return nil
}
