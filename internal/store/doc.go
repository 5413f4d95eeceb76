// Package store provides SQLite-backed storage for behavioral-coding data.
//
// The store owns the relational schema (schema.sql) read by the projection
// engine:
//   - coding_systems, coding_properties, property_values
//   - interviews, utterances, utterance_codes
//   - global_properties, global_values, global_ratings
//
// # Critical Patterns
//
// Snapshot reads:
//   - ReadSnapshot runs every query of one dataset call inside a single
//     read transaction, so a concurrent writer can never produce a result
//     mixing data from before and after its commit
//   - Failures to begin or commit surface as *TxError
//
// Idempotent imports:
//   - Import writes a whole model.Batch in one transaction
//   - INSERT ... ON CONFLICT DO NOTHING makes re-importing a fixture a no-op
//
// # Database Configuration
//
//   - WAL mode: Readers keep a stable snapshot while a writer commits
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
