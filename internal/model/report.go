package model

import "time"

// RunReport is the result of one cleanup invocation.
// It is filled in step by step by the pipeline and written by the report
// package and the history database.
type RunReport struct {
	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step returned.
	FinishedAt time.Time `json:"finished_at"`

	// Root is the absolute storage directory that was scanned.
	Root string `json:"root"`

	// Table is the files table that was read.
	Table string `json:"table"`

	// Simulate is true when no file was physically removed.
	Simulate bool `json:"simulate"`

	// Check is true when the post-cleanup check hook was requested.
	Check bool `json:"check"`

	// === Database pass ===

	// DBRowCount is the COUNT(*) of the files table.
	DBRowCount int64 `json:"db_row_count"`

	// CheckedRows is the number of rows actually read.
	CheckedRows int `json:"checked_rows"`

	// IgnoredIDs lists records whose file does not exist on disk.
	IgnoredIDs []int64 `json:"ignored_ids,omitempty"`

	// ExistsCount is the number of distinct base identifiers backed by a file.
	ExistsCount int `json:"exists_count"`

	// === Directory pass ===

	// OrphanGroupCount is the number of base identifiers without a record.
	OrphanGroupCount int `json:"orphan_group_count"`

	// OrphanFileCount is the number of files in all orphan groups.
	OrphanFileCount int `json:"orphan_file_count"`

	// === Sweep ===

	// Stats holds the scan and removal counters.
	Stats RunStats `json:"stats"`

	// Failures lists files that could not be removed.
	Failures []DeleteFailure `json:"failures,omitempty"`

	// Declined is true when the user refused the removal at the prompt.
	Declined bool `json:"declined,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the message of the error that aborted the run, if any.
	Error string `json:"error,omitempty"`
}

// NewRunReport creates a RunReport for the given root and table.
func NewRunReport(root, table string, simulate, check bool) *RunReport {
	return &RunReport{
		StartedAt: time.Now(),
		Root:      root,
		Table:     table,
		Simulate:  simulate,
		Check:     check,
	}
}

// Duration returns how long the run took. It is zero until FinishedAt is set.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// BytesKept returns the scanned bytes that were not removed.
func (r *RunReport) BytesKept() int64 {
	kept := r.Stats.BytesScanned - r.Stats.BytesRemoved
	if kept < 0 {
		return 0
	}
	return kept
}

// Failed reports whether the run was aborted by an error.
func (r *RunReport) Failed() bool {
	return r.Error != ""
}

// RunSummary is one entry of the run history listing.
type RunSummary struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Root         string    `json:"root"`
	Table        string    `json:"table"`
	Simulate     bool      `json:"simulate"`
	FilesRemoved int       `json:"files_removed"`
	BytesRemoved int64     `json:"bytes_removed"`
	Failed       bool      `json:"failed"`
}
