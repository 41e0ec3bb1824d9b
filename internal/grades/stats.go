package grades

import (
	"math"
	"sort"
)

// minSamples is the smallest grade count for which statistics are reported.
// Sample standard deviation is undefined for a single value.
const minSamples = 2

// Statistics holds descriptive statistics for one subject's grades.
// Each field is rounded to one decimal place independently.
type Statistics struct {
	Average           float64 `json:"average"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// StatisticsFor computes mean, median and sample standard deviation over
// every grade recorded under subject.
//
// ok is false when fewer than two grades exist.
func (e *Engine) StatisticsFor(subject string) (stats Statistics, ok bool) {
	var values []float64
	for _, s := range e.store.All() {
		if grade, found := s.Grades[subject]; found {
			values = append(values, grade)
		}
	}

	if len(values) < minSamples {
		return Statistics{}, false
	}

	return Statistics{
		Average:           RoundGrade(mean(values)),
		Median:            RoundGrade(median(values)),
		StandardDeviation: RoundGrade(sampleStdDev(values)),
	}, true
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median sorts a copy of values; the input order is preserved.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStdDev uses the n-1 divisor. Requires len(values) >= 2.
func sampleStdDev(values []float64) float64 {
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
