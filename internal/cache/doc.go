// Package cache provides a durable, deduplicating store for canonical
// operator expressions.
//
// Producers canonicalize trees with ir.Canonicalize and intern the
// result; the cache keys every term by its canonical fingerprint, so
// all structurally equivalent trees collapse onto one row regardless of
// how they were written. Intern accepts only ir.Canonicalized - the
// wrapper is the type-level proof that the fingerprint is meaningful.
//
// Storage is SQLite with WAL mode and a single-writer connection pool,
// with the schema embedded and applied idempotently on Open.
package cache
