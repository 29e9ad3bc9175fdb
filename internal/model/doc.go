// Package model defines the data structures shared across picgc.
//
// This package contains the following main types:
//   - FileRecord: one row of the files table
//   - DirEntry: one regular file found in the storage directory
//   - ExistsSet: base identifiers backed by a database record and a file on disk
//   - OrphanGroups: on-disk files grouped by base identifier, in discovery order
//   - RunStats and RunReport: counters and the full result of one invocation
//
// The report types are serializable to JSON for report output and for the
// run history database.
package model
