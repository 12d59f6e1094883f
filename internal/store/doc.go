// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Implementations must uphold the invariants
// the domain cannot check on its own: unique category and tag names per
// user, unique dependency pairs, cascading deletes from learning items, and
// atomic module reorders.
package store
