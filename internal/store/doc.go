// Package store provides SQLite-backed persistence for themer.
//
// The store holds two tables:
//   - preferences: key/value settings, including the persisted theme name
//     under ThemeKey
//   - theme_history: an append-only log of theme switches, one row per pass
//     token
//
// # Ordering
//
// History rows are ordered by seq, an INTEGER assigned on insert, never by
// wall-clock time. Queries break ties with token COLLATE BINARY so results
// are identical across runs.
//
// # Idempotency
//
// Recording the same pass token twice is a no-op (ON CONFLICT DO NOTHING).
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: five seconds of lock contention before SQLITE_BUSY
//   - one open connection: SQLite has a single writer
package store
