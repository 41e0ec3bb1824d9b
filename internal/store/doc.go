// Package store provides the in-memory record store for student records.
//
// The store is the only mutable state of the service. It is owned by the
// gradebook orchestrator and injected into the grade engines and the HTTP
// server; there is no package-level instance.
//
// The main components are:
//
//   - [Store]: Interface defining record storage operations
//   - [MemoryStore]: Mutex-guarded, insertion-ordered implementation of Store
//   - [Student]: Storage representation of a student and their grades
//
// Identifier assignment ([MemoryStore.Create]) and conditional removal
// ([MemoryStore.RemoveIf]) each run as a single critical section, so
// concurrent requests can neither collide on an id nor observe a half-applied
// removal. Every record handed out is a copy; callers cannot mutate stored
// grades through a returned value.
package store
