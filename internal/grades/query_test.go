package grades

import (
	"encoding/json"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/gradebook/internal/store"
)

func TestStudentsBySubjectGrade_SortedAscending(t *testing.T) {
	e, _ := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"math": 8.0}},
		store.Student{Name: "B", Grades: map[string]float64{"math": 4.0}},
		store.Student{Name: "C", Grades: map[string]float64{"math": 6.0}},
	)

	got := e.StudentsBySubjectGrade("math")

	assert.Equal(t, []SubjectGrade{
		{Name: "B", Grade: 4.0},
		{Name: "C", Grade: 6.0},
		{Name: "A", Grade: 8.0},
	}, got)
}

func TestStudentsBySubjectGrade_StableOnTies(t *testing.T) {
	e, _ := newTestEngine(t,
		store.Student{Name: "first", Grades: map[string]float64{"math": 7}},
		store.Student{Name: "low", Grades: map[string]float64{"math": 2}},
		store.Student{Name: "second", Grades: map[string]float64{"math": 7}},
		store.Student{Name: "third", Grades: map[string]float64{"math": 7}},
	)

	got := e.StudentsBySubjectGrade("math")

	require.Len(t, got, 4)
	assert.Equal(t, "low", got[0].Name)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[1].Name, got[2].Name, got[3].Name})
}

func TestStudentsBySubjectGrade_SkipsStudentsWithoutSubject(t *testing.T) {
	e, _ := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"math": 8.0}},
		store.Student{Name: "B", Grades: map[string]float64{"physics": 4.0}},
		store.Student{Name: "C", Grades: map[string]float64{}},
	)

	got := e.StudentsBySubjectGrade("math")

	assert.Equal(t, []SubjectGrade{{Name: "A", Grade: 8.0}}, got)
}

func TestStudentsBySubjectGrade_CaseSensitive(t *testing.T) {
	e, _ := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"Math": 8.0}},
	)

	assert.Empty(t, e.StudentsBySubjectGrade("math"))
	assert.Len(t, e.StudentsBySubjectGrade("Math"), 1)
}

func TestStudentsBySubjectGrade_UnknownSubjectIsEmptyNotNil(t *testing.T) {
	e, _ := newTestEngine(t)

	got := e.StudentsBySubjectGrade("history")

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStudentsBySubjectGrade_AlwaysNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	st := store.NewMemoryStore()
	for i := 0; i < 200; i++ {
		grades := map[string]float64{}
		if rng.Intn(4) != 0 {
			grades["math"] = RoundGrade(rng.Float64() * 10)
		}
		st.Create("s", grades)
	}
	e := NewEngine(st)

	got := e.StudentsBySubjectGrade("math")

	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].Grade < got[j].Grade
	}))
}

func TestSubjectGrade_JSONPair(t *testing.T) {
	data, err := json.Marshal([]SubjectGrade{{Name: "B", Grade: 4.5}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["B", 4.5]]`, string(data))

	var back []SubjectGrade
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []SubjectGrade{{Name: "B", Grade: 4.5}}, back)
}

func TestStudentsBelowThreshold_OnlyLowSubjects(t *testing.T) {
	e, st := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"math": 5.9, "art": 9.0, "music": 6.0}},
		store.Student{Name: "B", Grades: map[string]float64{"math": 7.0}},
		store.Student{Name: "C", Grades: map[string]float64{}},
		store.Student{Name: "D", Grades: map[string]float64{"physics": 1.0}},
	)

	got := e.StudentsBelowThreshold(DefaultThreshold)

	require.Len(t, got, 2)
	assert.Equal(t, store.Student{ID: 1, Name: "A", Grades: map[string]float64{"math": 5.9}}, got[0])
	assert.Equal(t, store.Student{ID: 4, Name: "D", Grades: map[string]float64{"physics": 1.0}}, got[1])

	// original record untouched
	orig, ok := st.Get(1)
	require.True(t, ok)
	assert.Len(t, orig.Grades, 3)
}

func TestStudentsBelowThreshold_ResultDoesNotAliasStore(t *testing.T) {
	e, st := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"math": 2}},
	)

	got := e.StudentsBelowThreshold(DefaultThreshold)
	got[0].Grades["math"] = 9

	orig, _ := st.Get(1)
	assert.Equal(t, 2.0, orig.Grades["math"])
}

func TestStudentsBelowThreshold_CustomThreshold(t *testing.T) {
	e, _ := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"math": 8.0, "art": 9.5}},
	)

	assert.Empty(t, e.StudentsBelowThreshold(8.0))

	got := e.StudentsBelowThreshold(9.0)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]float64{"math": 8.0}, got[0].Grades)
}

func TestStudentsBelowThreshold_NoneQualifyIsEmptyNotNil(t *testing.T) {
	e, _ := newTestEngine(t,
		store.Student{Name: "A", Grades: map[string]float64{"math": 10}},
	)

	got := e.StudentsBelowThreshold(DefaultThreshold)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStudentsBelowThreshold_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	st := store.NewMemoryStore()
	subjects := []string{"math", "art", "physics", "music"}
	for i := 0; i < 100; i++ {
		grades := map[string]float64{}
		for _, subj := range subjects {
			if rng.Intn(2) == 0 {
				grades[subj] = RoundGrade(rng.Float64() * 10)
			}
		}
		st.Create("s", grades)
	}
	e := NewEngine(st)

	for _, threshold := range []float64{0, 3.3, 6, 10} {
		for _, s := range e.StudentsBelowThreshold(threshold) {
			assert.NotEmpty(t, s.Grades, "threshold %v: empty filtered grades for id %d", threshold, s.ID)
			for subj, g := range s.Grades {
				assert.Less(t, g, threshold, "threshold %v: id %d subject %s", threshold, s.ID, subj)
			}
		}
	}
}
