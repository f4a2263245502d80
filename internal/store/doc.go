// Package store provides the SQLite-backed plan ledger.
//
// The ledger is an append-only record of induction plan decisions taken at
// the confirmation step. Each record stores the decision, who made it, the
// digest of the fleet the plan was ranked from and the ranked entries
// themselves.
//
// # Ordering
//
// Records carry an INTEGER seq assigned by SQLite on insert. Listings are
// ordered by seq, never by the decided_at timestamp, so two decisions in
// the same second still list deterministically.
//
// # Idempotency
//
// Plan IDs are unique. Recording the same ID twice is a no-op, so a
// confirmation retried after a network error does not duplicate history.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The ranking engine never reads the ledger.
package store
