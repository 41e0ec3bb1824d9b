package grades

import (
	"encoding/json"
	"sort"

	"github.com/jpalmerr/gradebook/internal/store"
)

// SubjectGrade is one student's grade in a single subject.
//
// It serializes as a two-element JSON array: ["name", grade].
type SubjectGrade struct {
	Name  string
	Grade float64
}

// MarshalJSON implements json.Marshaler.
func (sg SubjectGrade) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{sg.Name, sg.Grade})
}

// UnmarshalJSON implements json.Unmarshaler.
func (sg *SubjectGrade) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &sg.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &sg.Grade)
}

// StudentsBySubjectGrade lists every student that has a grade in subject,
// sorted ascending by grade.
//
// Subject matching is exact and case-sensitive. Ties keep scan order.
// Returns an empty slice when no student has the subject.
func (e *Engine) StudentsBySubjectGrade(subject string) []SubjectGrade {
	result := []SubjectGrade{}
	for _, s := range e.store.All() {
		if grade, ok := s.Grades[subject]; ok {
			result = append(result, SubjectGrade{Name: s.Name, Grade: grade})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Grade < result[j].Grade
	})
	return result
}

// StudentsBelowThreshold returns, for every student with at least one grade
// strictly below threshold, a new record holding only those grades.
//
// Students with no such grade are omitted. The store is not modified.
// Returns an empty slice when no student qualifies.
func (e *Engine) StudentsBelowThreshold(threshold float64) []store.Student {
	result := []store.Student{}
	for _, s := range e.store.All() {
		low := make(map[string]float64)
		for subject, grade := range s.Grades {
			if grade < threshold {
				low[subject] = grade
			}
		}
		if len(low) == 0 {
			continue
		}
		result = append(result, store.Student{
			ID:     s.ID,
			Name:   s.Name,
			Grades: low,
		})
	}
	return result
}
