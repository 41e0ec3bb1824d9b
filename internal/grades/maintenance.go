package grades

import "github.com/jpalmerr/gradebook/internal/store"

// RemoveGradelessStudents deletes every student whose grades map is empty and
// returns their ids in scan order.
//
// The pass is irreversible in memory; whether the loss is kept depends on
// the next snapshot save. Returns an empty slice when nothing was removed,
// so a second call in a row always returns empty.
func (e *Engine) RemoveGradelessStudents() []int {
	return e.store.RemoveIf(func(s store.Student) bool {
		return len(s.Grades) == 0
	})
}
