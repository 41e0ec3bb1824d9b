package grades

import (
	"math"

	"github.com/jpalmerr/gradebook/internal/store"
)

const (
	// DefaultThreshold is the grade below which a subject is flagged by
	// [Engine.StudentsBelowThreshold].
	DefaultThreshold = 6.0

	// MinGrade and MaxGrade bound the grades accepted on creation.
	MinGrade = 0.0
	MaxGrade = 10.0
)

// Engine runs grade queries, statistics and maintenance against a store.
type Engine struct {
	store store.Store
}

// NewEngine creates an [Engine] over st.
func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// RoundGrade rounds x to one decimal place, ties to even.
//
// Ties are resolved on the binary value of x*10, so 0.25 rounds to 0.2 and
// 0.75 rounds to 0.8.
func RoundGrade(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}

// ValidGrade reports whether g lies in the inclusive range [MinGrade, MaxGrade].
// NaN is never valid.
func ValidGrade(g float64) bool {
	return g >= MinGrade && g <= MaxGrade
}
