package store

// Student represents a student record in storage.
//
// Student is the storage representation of a student, optimized for JSON
// serialization (used by the REST API and the snapshot file).
type Student struct {
	// ID is the store-assigned identifier. Always positive.
	ID int `json:"id"`

	// Name is the student's display name.
	Name string `json:"name"`

	// Grades maps subject name to grade. An empty map means the student has
	// no grades and is eligible for removal by the maintenance pass.
	Grades map[string]float64 `json:"grades"`
}

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	s.Grades = copyGrades(s.Grades)
	return s
}

// Store defines the interface for storing and scanning student records.
//
// Store implementations must be safe for concurrent access. Scans return
// snapshots in insertion order; modifications to returned values do not
// affect the store.
type Store interface {
	// Create assigns the next identifier (current maximum plus one, or 1 when
	// empty) and stores the student under it, atomically.
	Create(name string, grades map[string]float64) Student

	// Insert stores or overwrites the record at id. No validation is done.
	Insert(id int, student Student)

	// Get returns the record for id and whether it exists.
	Get(id int) (Student, bool)

	// IDs returns all identifiers in scan order.
	IDs() []int

	// All returns a snapshot of all records in scan order.
	All() []Student

	// RemoveIf deletes every record matching pred and returns their ids in
	// scan order. The scan runs over a snapshot of the keys.
	RemoveIf(pred func(Student) bool) []int

	// Replace discards all records and loads the given ones.
	Replace(students []Student)

	// Len returns the number of stored records.
	Len() int

	// Version returns a counter that changes on every mutation.
	Version() uint64
}

// copyGrades returns a copy of the grades map. A nil map becomes an empty
// one so that records always serialize grades as an object.
func copyGrades(grades map[string]float64) map[string]float64 {
	cp := make(map[string]float64, len(grades))
	for subject, grade := range grades {
		cp[subject] = grade
	}
	return cp
}
