// Package grades implements the read-only query and statistics engines and
// the maintenance pass over the student record store.
//
// All engines operate on an injected [store.Store]. Absence is never an
// error here: queries return empty slices, [Engine.StatisticsFor] returns
// ok == false, and [Engine.RemoveGradelessStudents] returns an empty slice
// when nothing was removed. Translating absence into an HTTP status is the
// server's job.
//
// Rounding is round-half-to-even at one decimal place (see [RoundGrade]).
package grades
