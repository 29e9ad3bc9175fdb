package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors returned by Config.Validate and
// Config.ResolveFilesPath. Callers can test them with errors.Is.
var (
	// ErrUnsupportedDriver is returned when db.driver is neither mysql nor sqlite.
	ErrUnsupportedDriver = errors.New("unsupported database driver: use mysql or sqlite")

	// ErrMissingHost is returned when db.host is empty for a MySQL connection.
	ErrMissingHost = errors.New("db.host is required")

	// ErrInvalidPort is returned when db.port is not a valid TCP port.
	ErrInvalidPort = errors.New("invalid db.port: must be a number between 1 and 65535")

	// ErrMissingDBName is returned when db.db_name is empty.
	ErrMissingDBName = errors.New("db.db_name is required")

	// ErrMissingFilesPath is returned when files.path is empty.
	ErrMissingFilesPath = errors.New("files.path is required")

	// ErrMissingTable is returned when files.table is empty.
	ErrMissingTable = errors.New("files.table is required")

	// ErrInvalidTableName is returned when files.table is not a plain identifier.
	ErrInvalidTableName = errors.New("invalid files.table: only letters, digits, '_' and '$' are allowed")

	// ErrInvalidBaseLength is returned when files.base_length is not positive.
	ErrInvalidBaseLength = errors.New("invalid files.base_length: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrFilesPathNotFound is returned when files.path does not exist.
	ErrFilesPathNotFound = errors.New("directory does not exist")

	// ErrFilesPathNotDir is returned when files.path is not a directory.
	ErrFilesPathNotDir = errors.New("not a directory")
)

// PathError reports a problem with the configured storage directory.
type PathError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *PathError) Error() string {
	return fmt.Sprintf("files.path %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
