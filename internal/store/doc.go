// Package store provides the SQLite-backed baseline store for reports.
//
// A baseline is one saved report for a named document: the canonical
// report JSON plus the content-addressed document fingerprint and report
// ID, stamped with report/engine versions and a UUIDv7 run ID. The diff
// command compares a freshly computed report against the latest baseline
// for its document key.
//
// # Critical patterns
//
// CRITICAL: saves are idempotent at the (doc_name, report_id) level.
// Saving a byte-identical report for the same document is a no-op, so
// repeated CI runs do not grow the table.
//
// CRITICAL: ordering uses seq INTEGER (assigned by AUTOINCREMENT), never
// wall time. "Latest" means highest seq.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//   - SetMaxOpenConns(1): SQLite single-writer discipline
//
// Report IDs and document fingerprints are computed in internal/ir using
// RFC 8785 canonical JSON and SHA-256 with domain separation; the store
// never recomputes them.
package store
