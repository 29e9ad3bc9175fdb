package reconcile

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/nao1215/picgc/internal/fsscan"
	"github.com/nao1215/picgc/internal/model"
	"github.com/nao1215/picgc/internal/pathmap"
)

// DefaultProgressInterval is the minimum time between two progress lines of
// the directory pass.
const DefaultProgressInterval = time.Second

// Reconciler computes the exists set and the orphan groups.
type Reconciler struct {
	normalizer       pathmap.Normalizer
	scanner          *fsscan.Scanner
	baseLength       int
	logger           *slog.Logger
	debug            bool
	progressInterval time.Duration
	now              func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithDebug logs the per-file classification fields of the directory pass.
func WithDebug(debug bool) Option {
	return func(r *Reconciler) {
		r.debug = debug
	}
}

// WithBaseLength sets the base identifier width.
func WithBaseLength(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.baseLength = n
		}
	}
}

// WithProgressInterval sets how often the directory pass reports progress.
func WithProgressInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		r.progressInterval = d
	}
}

// New returns a Reconciler resolving stored paths with normalizer and
// listing files with scanner.
func New(normalizer pathmap.Normalizer, scanner *fsscan.Scanner, opts ...Option) *Reconciler {
	r := &Reconciler{
		normalizer:       normalizer,
		scanner:          scanner,
		baseLength:       pathmap.DefaultBaseLength,
		logger:           slog.Default(),
		progressInterval: DefaultProgressInterval,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExistsResult is the outcome of the database pass.
type ExistsResult struct {
	// Exists holds the base identifiers backed by a file on disk.
	Exists model.ExistsSet

	// Ignored lists the IDs of records whose file is missing.
	Ignored []int64

	// Checked is the number of records read.
	Checked int
}

// BuildExistsSet consumes records and builds the exists set. total is the
// expected row count and is only used in log lines. The first error yielded
// by records aborts the pass.
func (r *Reconciler) BuildExistsSet(ctx context.Context, records iter.Seq2[model.FileRecord, error], total int64) (ExistsResult, error) {
	result := ExistsResult{Exists: model.NewExistsSet()}
	start := r.now()

	r.logger.InfoContext(ctx, "scanning files in db", "total", total)

	for rec, err := range records {
		if err != nil {
			return result, fmt.Errorf("failed to read file records: %w", err)
		}
		result.Checked++

		path := r.normalizer.Normalize(rec.StoredPath)
		if !r.scanner.FileExists(path) {
			result.Ignored = append(result.Ignored, rec.ID)
			r.logger.DebugContext(ctx, "file missing, record ignored",
				"row", result.Checked, "total", total, "id", rec.ID, "path", path)
			continue
		}

		baseID, _ := pathmap.BaseIdentifierOf(path, r.baseLength)
		result.Exists.Add(baseID)
		r.logger.DebugContext(ctx, "file exists",
			"row", result.Checked, "total", total, "id", rec.ID, "path", path)
	}

	r.logger.InfoContext(ctx, "db scan finished",
		"checked_rows", result.Checked,
		"ignored_rows", len(result.Ignored),
		"exists", result.Exists.Len(),
		"elapsed", r.now().Sub(start).Round(time.Millisecond).String(),
	)
	return result, nil
}

// ScanResult is the outcome of the directory pass.
type ScanResult struct {
	// Groups holds the orphan files grouped by base identifier.
	Groups *model.OrphanGroups

	// FilesScanned is the number of regular files listed.
	FilesScanned int

	// BytesScanned is the total size of the listed files.
	BytesScanned int64
}

// FindOrphans lists root and groups every file whose base identifier is
// not in exists. Files with a name shorter than the base length are counted
// but never grouped. A listing error aborts the pass.
func (r *Reconciler) FindOrphans(ctx context.Context, root string, exists model.ExistsSet) (ScanResult, error) {
	result := ScanResult{Groups: model.NewOrphanGroups()}
	start := r.now()
	lastProgress := start

	r.logger.InfoContext(ctx, "scanning files in folder", "root", root)

	entries, err := r.scanner.Scan(root)
	if err != nil {
		return result, err
	}

	for _, entry := range entries {
		result.FilesScanned++
		result.BytesScanned += entry.Size

		if now := r.now(); now.Sub(lastProgress) >= r.progressInterval {
			r.logger.InfoContext(ctx, "scan progress", "scanned", result.FilesScanned)
			lastProgress = now
		}

		name := pathmap.NameWithoutExt(entry.Path)
		baseID, eligible := pathmap.BaseIdentifier(name, r.baseLength)
		if !eligible {
			continue
		}

		exist := exists.Has(baseID)
		marked := result.Groups.Has(baseID)
		if !exist {
			result.Groups.Add(baseID, entry.Path)
		}

		if r.debug {
			r.logger.DebugContext(ctx, "classified file",
				"path", entry.Path,
				"name", name,
				"base", baseID,
				"exists", exist,
				"already_marked", marked,
			)
		}
	}

	r.logger.InfoContext(ctx, "folder scan finished",
		"files_scanned", result.FilesScanned,
		"bytes_scanned", result.BytesScanned,
		"orphan_groups", result.Groups.Len(),
		"orphan_files", result.Groups.FileCount(),
		"elapsed", r.now().Sub(start).Round(time.Millisecond).String(),
	)
	return result, nil
}
