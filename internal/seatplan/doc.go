// Package seatplan holds the seat planning core: the floor plan and roster
// data model, the weekly attendance predicate, the auto-assignment engine,
// manual assignment primitives and the read-only week and day projections.
//
// Every function in this package is pure. Callers pass a Document (or parts
// of it) and receive new collections; nothing here performs I/O, logs or
// returns errors for inconsistent data. Assignment entries that point at
// deleted seats or people are skipped when read instead of being treated as
// failures.
package seatplan
