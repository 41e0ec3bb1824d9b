package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/gradebook/internal/store"
)

func TestSQLite_EmptyLoad(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	students, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestSQLite_SaveThenLoadKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)

	want := []store.Student{
		{ID: 5, Name: "Eve", Grades: map[string]float64{"math": 7.5}},
		{ID: 2, Name: "Bob", Grades: map[string]float64{}},
		{ID: 9, Name: "Ivy", Grades: map[string]float64{"math": 4, "art": 10}},
	}
	require.NoError(t, s.Save(context.Background(), want))
	require.NoError(t, s.Close())

	// reopen to prove the data hit disk
	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLite_SaveReplacesPreviousSnapshot(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, []store.Student{
		{ID: 1, Name: "Old", Grades: map[string]float64{"math": 1}},
	}))
	require.NoError(t, s.Save(ctx, []store.Student{
		{ID: 2, Name: "New", Grades: map[string]float64{"art": 2}},
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Student{
		{ID: 2, Name: "New", Grades: map[string]float64{"art": 2}},
	}, got)
}
