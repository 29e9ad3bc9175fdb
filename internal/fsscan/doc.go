// Package fsscan lists the storage directory.
//
// All file system access goes through an afero.Fs so the reconciler and the
// sweeper can be exercised against an in-memory file system in tests.
package fsscan
