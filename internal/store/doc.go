// Package store keeps a SQLite-backed history of compiled search bodies.
//
// Every successful compilation can be recorded together with the
// fingerprint of its RQL expression, so repeated queries are found without
// recompiling and past outputs can be compared after a mapping change.
//
// # Ordering
//
// Records carry a logical sequence number (created_seq) assigned on write.
// Listings are ordered by created_seq, never by timestamps, which keeps
// results identical across machines and clock skew.
//
// Databases run in WAL mode with synchronous=NORMAL and a five second
// busy timeout. Older files are upgraded in place on Open, tracked by
// PRAGMA user_version.
package store
