// Package server provides the HTTP API for the gradebook service.
//
// This package is internal to gradebook and handles all HTTP concerns:
//
//   - Student records: create at "POST /students/", read at "GET /students/{id}"
//   - Grade queries: "GET /grades/{subject}", "GET /grades/statistics/{subject}",
//     "GET /grades/below_average/"
//   - Maintenance: "DELETE /students/remove/no_grades"
//   - Liveness: "GET /healthz"
//
// Request validation (grade bounds, name presence) happens here, before any
// record reaches the store. The grade engines signal absence with empty
// results; this package maps that to 404. Error bodies have the shape
// {"detail": "..."}.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
