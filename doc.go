// Package gradebook provides a small, embeddable record-management service
// for students and their per-subject grades.
//
// Gradebook keeps all records in memory, serves a JSON HTTP API over them,
// and persists a snapshot at shutdown (and optionally on an interval). The
// API can add and read students, list a subject's grades in ascending order,
// compute per-subject statistics, flag grades below a threshold, and prune
// students that have no grades.
//
// # Quick Start
//
// Create a gradebook and start it with graceful shutdown:
//
//	gb, _ := gradebook.New(gradebook.WithJSONFile("students.json"))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	gb.Start(ctx) // blocks until context is cancelled, then saves
//
// # Configuration
//
// Gradebook uses the functional options pattern for configuration:
//
//	gb, err := gradebook.New(
//	    gradebook.WithPort(9090),
//	    gradebook.WithSQLiteFile("students.db"),
//	    gradebook.WithAutosaveInterval(time.Minute),
//	    gradebook.WithBelowThreshold(5.0),
//	)
//
// # Statistics
//
// Statistics are reported only for subjects with at least two grades, since
// sample standard deviation (divisor n-1) is undefined for a single value.
// Average, median and standard deviation are each rounded to one decimal
// place, ties to even.
//
// # Architecture
//
// Gradebook consists of several internal packages (under internal/):
//
//   - internal/store: Mutex-guarded in-memory record store
//   - internal/grades: Query, statistics and maintenance engines
//   - internal/persist: JSON file and SQLite snapshot backends
//   - internal/autosave: Periodic snapshot flushing
//   - internal/server: HTTP API with request validation
//
// The internal packages are not part of the public API and may change
// without notice.
package gradebook
