package store

import (
	"sync"
)

// MemoryStore is an in-memory implementation of [Store].
//
// Records are keyed by student id. Scan order is insertion order: the order
// in which ids were first stored. Overwriting an existing id keeps its
// position.
type MemoryStore struct {
	mu       sync.RWMutex
	students map[int]Student
	order    []int
	version  uint64
}

// NewMemoryStore creates a new, empty in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		students: make(map[int]Student),
	}
}

// Create stores a new student under the next free identifier.
//
// The identifier is the current maximum id plus one, or 1 when the store is
// empty. Freed ids below the maximum are not reused. Reading the maximum and
// inserting happen under the same lock.
func (m *MemoryStore) Create(name string, grades map[string]float64) Student {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := 1
	for existing := range m.students {
		if existing >= id {
			id = existing + 1
		}
	}

	student := Student{ID: id, Name: name, Grades: copyGrades(grades)}
	m.put(id, student)
	return student.Clone()
}

// Insert stores or overwrites the record at id.
//
// The record's ID field is set to id. Grades are not validated here; the
// caller is responsible for bounds checking.
func (m *MemoryStore) Insert(id int, student Student) {
	student.ID = id
	student.Grades = copyGrades(student.Grades)

	m.mu.Lock()
	m.put(id, student)
	m.mu.Unlock()
}

// put stores a record. Caller must hold the write lock.
func (m *MemoryStore) put(id int, student Student) {
	if _, exists := m.students[id]; !exists {
		m.order = append(m.order, id)
	}
	m.students[id] = student
	m.version++
}

// Get returns a copy of the record for id.
func (m *MemoryStore) Get(id int) (Student, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return Student{}, false
	}
	return student.Clone(), true
}

// IDs returns a snapshot of all ids in scan order.
func (m *MemoryStore) IDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, len(m.order))
	copy(ids, m.order)
	return ids
}

// All returns copies of all records in scan order.
func (m *MemoryStore) All() []Student {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]Student, 0, len(m.order))
	for _, id := range m.order {
		students = append(students, m.students[id].Clone())
	}
	return students
}

// RemoveIf deletes every record matching pred.
//
// The key order is copied before any deletion so the scan never observes its
// own mutations. The whole pass holds the write lock, making it atomic with
// respect to concurrent readers and writers. pred receives a copy and must
// not call back into the store.
func (m *MemoryStore) RemoveIf(pred func(Student) bool) []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]int, len(m.order))
	copy(snapshot, m.order)

	removed := []int{}
	for _, id := range snapshot {
		if pred(m.students[id].Clone()) {
			delete(m.students, id)
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		kept := m.order[:0]
		for _, id := range m.order {
			if _, ok := m.students[id]; ok {
				kept = append(kept, id)
			}
		}
		m.order = kept
		m.version++
	}

	return removed
}

// Replace discards the current contents and loads students in the given
// order. Later duplicates of an id overwrite earlier ones.
func (m *MemoryStore) Replace(students []Student) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.students = make(map[int]Student, len(students))
	m.order = make([]int, 0, len(students))
	for _, s := range students {
		s.Grades = copyGrades(s.Grades)
		m.put(s.ID, s)
	}
	m.version++
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students)
}

// Version returns the mutation counter.
func (m *MemoryStore) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
