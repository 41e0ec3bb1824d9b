package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/jpalmerr/gradebook/internal/store"
)

// tempFilePrefix is the prefix used for temporary atomic write files.
const tempFilePrefix = ".gradebook-tmp-"

// JSONFile persists students as a JSON object keyed by stringified id:
//
//	{
//	    "1": {"id": 1, "name": "Ada", "grades": {"math": 9.5}}
//	}
//
// Writes are atomic: data goes to a temp file in the same directory, which
// is synced and renamed over the target.
type JSONFile struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewJSONFile creates a [JSONFile] backend for path. The file need not exist.
func NewJSONFile(path string, logger *slog.Logger) *JSONFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFile{path: path, logger: logger}
}

// Path returns the snapshot file path.
func (j *JSONFile) Path() string {
	return j.path
}

// Load reads the snapshot file.
//
// A missing or malformed file yields an empty result and a warning log; no
// error is returned. Other read failures (permissions, I/O) are returned.
// When a record's embedded id disagrees with its key, the key wins.
func (j *JSONFile) Load(ctx context.Context) ([]store.Student, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		j.logger.Info("no snapshot file, starting empty", "path", j.path)
		return []store.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", j.path, err)
	}

	var raw map[string]store.Student
	if err := json.Unmarshal(data, &raw); err != nil {
		j.logger.Warn("malformed snapshot file, starting empty", "path", j.path, "error", err)
		return []store.Student{}, nil
	}

	students := make([]store.Student, 0, len(raw))
	for key, s := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			j.logger.Warn("malformed snapshot file, starting empty",
				"path", j.path,
				"error", fmt.Errorf("invalid student key %q: %w", key, err),
			)
			return []store.Student{}, nil
		}
		s.ID = id
		if s.Grades == nil {
			s.Grades = map[string]float64{}
		}
		students = append(students, s)
	}

	// JSON objects are unordered; ids give a stable scan order
	sort.Slice(students, func(a, b int) bool { return students[a].ID < students[b].ID })
	return students, nil
}

// Save writes all students to the snapshot file atomically.
func (j *JSONFile) Save(ctx context.Context, students []store.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	byKey := make(map[string]store.Student, len(students))
	for _, s := range students {
		if s.Grades == nil {
			s.Grades = map[string]float64{}
		}
		byKey[strconv.Itoa(s.ID)] = s
	}

	data, err := json.MarshalIndent(byKey, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := writeFileAtomic(j.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", j.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (j *JSONFile) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file in the target's directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
