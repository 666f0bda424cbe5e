// Package store provides SQLite-backed durable storage for shell history.
//
// The store is written to by many short-lived, uncoordinated processes:
// every shell hook invocation opens the file, writes one or two rows, and
// exits. Coordination happens entirely through SQLite's own file locking;
// the store never takes locks of its own. Contention therefore shows up as
// a busy/locked response from the engine, and the executor absorbs it with
// a bounded, jittered retry loop.
//
// The public surface is small:
//
//   - Registry: table name -> creation DDL, populated before the first Open
//   - Open/Close: connection lifecycle plus one-time schema bootstrap
//   - Exec: run SQL and materialize rows into an immutable ResultSet
//   - Insert: write one Record and return its engine-assigned row id
//   - Quote: SQL string-literal escaping used by all record kinds
//
// Error handling is deliberately binary. Transient contention is retried
// and never observed by callers. A constraint violation collapses to "no
// result", indistinguishable from a query that produced no rows. Anything
// else (malformed SQL, an unwritable backing file, retry exhaustion) is
// fatal: the diagnostics sink records the failure and the process exits
// nonzero. Callers either get a ResultSet or the process is gone.
package store
