package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/nao1215/picgc/internal/model"
)

// Deleter removes the files of orphan groups.
type Deleter struct {
	fs     afero.Fs
	logger *slog.Logger
}

// New returns a Deleter over fs. A nil fs means the OS file system and a nil
// logger means slog.Default().
func New(fs afero.Fs, logger *slog.Logger) *Deleter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deleter{fs: fs, logger: logger}
}

// Result is the outcome of a sweep.
type Result struct {
	// FilesRemoved and BytesRemoved count successful (or simulated) removals.
	FilesRemoved int
	BytesRemoved int64

	// Failures lists the files that could not be sized or removed.
	Failures []model.DeleteFailure
}

// Apply walks groups in order and removes every path. Each file is sized
// right before removal. With simulate set nothing is removed but the counts
// are the same as for a real run on the same snapshot.
//
// A failing file is logged, recorded in Result.Failures and skipped; it
// never stops the sweep.
func (d *Deleter) Apply(ctx context.Context, groups *model.OrphanGroups, simulate bool) Result {
	var result Result
	if groups == nil {
		return result
	}

	total := groups.Len()
	d.logger.InfoContext(ctx, "removing files", "groups", total, "simulate", simulate)

	progress := 0
	for baseID, paths := range groups.All() {
		progress++
		d.logger.InfoContext(ctx, "processing group",
			"progress", fmt.Sprintf("%d of %d", progress, total),
			"base", baseID,
			"files", len(paths),
		)

		for _, path := range paths {
			size, err := d.remove(path, simulate)
			if err != nil {
				d.logger.WarnContext(ctx, "failed to remove file", "path", path, "error", err)
				result.Failures = append(result.Failures, model.DeleteFailure{Path: path, Error: err.Error()})
				continue
			}

			result.FilesRemoved++
			result.BytesRemoved += size
			d.logger.InfoContext(ctx, "removed file",
				"progress", fmt.Sprintf("%d of %d", progress, total),
				"path", path,
				"size", size,
				"simulate", simulate,
			)
		}
	}

	d.logger.InfoContext(ctx, "removing files finished",
		"files_removed", result.FilesRemoved,
		"bytes_removed", result.BytesRemoved,
		"failures", len(result.Failures),
	)
	return result
}

func (d *Deleter) remove(path string, simulate bool) (int64, error) {
	info, err := d.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	if simulate {
		return info.Size(), nil
	}
	if err := d.fs.Remove(path); err != nil {
		return 0, fmt.Errorf("remove: %w", err)
	}
	return info.Size(), nil
}
