// Package autosave periodically flushes the record store to its snapshot
// backend.
//
// The saver ticks at a fixed interval and writes a snapshot only when the
// store's version has changed since the last successful save. It is started
// and stopped by the gradebook orchestrator; the final shutdown save is done
// by the orchestrator itself, not by this package.
package autosave
