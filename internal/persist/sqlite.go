package persist

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/jpalmerr/gradebook/internal/store"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS students (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	seq  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS grades (
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	subject    TEXT NOT NULL,
	grade      REAL NOT NULL,
	PRIMARY KEY (student_id, subject)
);`

// SQLite persists students in a SQLite database using the pure-Go driver.
//
// Scan order is kept in a seq column so a reload restores the same order the
// store had when it was saved.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite snapshot database at path.
// Use ":memory:" for an in-memory database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Load reads all students and their grades.
func (s *SQLite) Load(ctx context.Context) ([]store.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM students ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	defer rows.Close()

	students := []store.Student{}
	index := make(map[int]int)
	for rows.Next() {
		var st store.Student
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		st.Grades = map[string]float64{}
		index[st.ID] = len(students)
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	gradeRows, err := s.db.QueryContext(ctx, "SELECT student_id, subject, grade FROM grades")
	if err != nil {
		return nil, fmt.Errorf("load grades: %w", err)
	}
	defer gradeRows.Close()

	for gradeRows.Next() {
		var (
			id      int
			subject string
			grade   float64
		)
		if err := gradeRows.Scan(&id, &subject, &grade); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		if i, ok := index[id]; ok {
			students[i].Grades[subject] = grade
		}
	}
	return students, gradeRows.Err()
}

// Save replaces all stored rows with students in one transaction.
func (s *SQLite) Save(ctx context.Context, students []store.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM grades"); err != nil {
		return fmt.Errorf("clear grades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return fmt.Errorf("clear students: %w", err)
	}

	studentStmt, err := tx.PrepareContext(ctx, "INSERT INTO students (id, name, seq) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare student insert: %w", err)
	}
	defer studentStmt.Close()

	gradeStmt, err := tx.PrepareContext(ctx, "INSERT INTO grades (student_id, subject, grade) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare grade insert: %w", err)
	}
	defer gradeStmt.Close()

	for seq, st := range students {
		if _, err := studentStmt.ExecContext(ctx, st.ID, st.Name, seq); err != nil {
			return fmt.Errorf("insert student %d: %w", st.ID, err)
		}
		for subject, grade := range st.Grades {
			if _, err := gradeStmt.ExecContext(ctx, st.ID, subject, grade); err != nil {
				return fmt.Errorf("insert grade %d/%s: %w", st.ID, subject, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
