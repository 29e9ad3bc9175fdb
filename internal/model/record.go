package model

// FileRecord is a single row read from the files table.
type FileRecord struct {
	// ID is the primary key of the row.
	ID int64 `json:"id"`

	// StoredPath is the raw value of the file column, e.g. "/pic/ab12....jpg".
	StoredPath string `json:"stored_path"`
}

// DirEntry is a regular file listed in the storage directory.
type DirEntry struct {
	// Path is the absolute path of the file.
	Path string `json:"path"`

	// Size is the file size in bytes at listing time.
	Size int64 `json:"size"`
}
