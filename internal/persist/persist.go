// Package persist loads and saves student snapshots.
//
// The record store is hydrated once at startup and flushed at shutdown (and
// optionally on an autosave interval). Two backends are provided:
//
//   - [JSONFile]: a single JSON object keyed by stringified student id
//   - [SQLite]: a pure-Go SQLite database (modernc.org/sqlite)
package persist

import (
	"context"

	"github.com/jpalmerr/gradebook/internal/store"
)

// Snapshotter loads and saves the full set of student records.
//
// Implementations are only called at lifecycle points (startup, autosave,
// shutdown) but must still be safe for concurrent use.
type Snapshotter interface {
	// Load returns all persisted students. A missing or unreadable snapshot
	// yields an empty slice rather than an error where the backend allows it.
	Load(ctx context.Context) ([]store.Student, error)

	// Save replaces the persisted snapshot with students.
	Save(ctx context.Context, students []store.Student) error

	// Close releases backend resources.
	Close() error
}
