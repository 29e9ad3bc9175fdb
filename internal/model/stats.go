package model

// RunStats holds the counters accumulated over one run.
type RunStats struct {
	// FilesScanned is the number of regular files listed in the storage directory.
	FilesScanned int `json:"files_scanned"`

	// BytesScanned is the total size of the listed files.
	BytesScanned int64 `json:"bytes_scanned"`

	// FilesRemoved is the number of files removed, or that would be removed
	// in simulation mode.
	FilesRemoved int `json:"files_removed"`

	// BytesRemoved is the total size of the removed files.
	BytesRemoved int64 `json:"bytes_removed"`
}

// DeleteFailure records a file that could not be removed.
// Failures are not counted in RunStats.
type DeleteFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}
