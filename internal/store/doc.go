// Package store persists the participant registry in a single file.
//
// The backing format is chosen by file extension:
//
//   - .xlsx: one worksheet with the canonical columns (the default)
//   - .csv: the canonical columns as comma-separated text
//   - .db, .sqlite: a single participants table in SQLite
//
// Every Load, Save and Update holds the store lock for its whole duration:
// an in-process mutex plus a cross-process lock on a sibling marker file
// (or Redis, see WithLocker). Update keeps the lock across load, mutation and
// save so that duplicate checks and sequence numbering see a consistent
// snapshot.
//
// Writes are all-or-nothing. File formats are written to a temporary file in
// the same directory and renamed over the target; SQLite replaces rows in one
// transaction. A failed save leaves the previous registry intact.
package store
