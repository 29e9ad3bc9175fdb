package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/picgc/internal/model"
	"github.com/nao1215/picgc/internal/reconcile"
	"github.com/nao1215/picgc/internal/sweep"
)

// Step names, as recorded in RunReport.PerformedSteps.
const (
	StepCount   = "count"
	StepExists  = "exists"
	StepScan    = "scan"
	StepConfirm = "confirm"
	StepSweep   = "sweep"
	StepCheck   = "check"
)

// errStepOrder is returned when a step runs before the step it depends on.
var errStepOrder = errors.New("pipeline step ran out of order")

// FileSource provides the file records of the database.
// *database.FileTable implements it.
type FileSource interface {
	Count(ctx context.Context) (int64, error)
	Records(ctx context.Context) iter.Seq2[model.FileRecord, error]
}

// ConfirmFunc asks whether the files may be removed.
type ConfirmFunc func(label string) (bool, error)

// CountStep reads the number of rows in the files table.
type CountStep struct {
	source FileSource
	logger *slog.Logger
}

// NewCountStep creates a count step.
func NewCountStep(source FileSource, logger *slog.Logger) *CountStep {
	return &CountStep{source: source, logger: loggerOrDefault(logger)}
}

// Name returns the step name.
func (s *CountStep) Name() string {
	return StepCount
}

// Do executes the count step.
func (s *CountStep) Do(ctx context.Context, run *Run) error {
	count, err := s.source.Count(ctx)
	if err != nil {
		return err
	}
	run.Report.DBRowCount = count
	s.logger.InfoContext(ctx, "file entries in db to check", "count", count)
	return nil
}

// ExistsStep builds the exists set from the database records.
type ExistsStep struct {
	source     FileSource
	reconciler *reconcile.Reconciler
}

// NewExistsStep creates an exists step.
func NewExistsStep(source FileSource, reconciler *reconcile.Reconciler) *ExistsStep {
	return &ExistsStep{source: source, reconciler: reconciler}
}

// Name returns the step name.
func (s *ExistsStep) Name() string {
	return StepExists
}

// Do executes the exists step.
func (s *ExistsStep) Do(ctx context.Context, run *Run) error {
	result, err := s.reconciler.BuildExistsSet(ctx, s.source.Records(ctx), run.Report.DBRowCount)
	run.Report.CheckedRows = result.Checked
	run.Report.IgnoredIDs = result.Ignored
	if err != nil {
		return err
	}

	run.Exists = result.Exists
	run.Report.ExistsCount = result.Exists.Len()
	return nil
}

// ScanStep lists the storage directory and groups the orphans.
type ScanStep struct {
	reconciler *reconcile.Reconciler
}

// NewScanStep creates a scan step.
func NewScanStep(reconciler *reconcile.Reconciler) *ScanStep {
	return &ScanStep{reconciler: reconciler}
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return StepScan
}

// Do executes the scan step.
func (s *ScanStep) Do(ctx context.Context, run *Run) error {
	if run.Exists == nil {
		return fmt.Errorf("%w: %s before %s", errStepOrder, StepScan, StepExists)
	}

	result, err := s.reconciler.FindOrphans(ctx, run.Report.Root, run.Exists)
	if err != nil {
		return err
	}

	run.Groups = result.Groups
	run.Report.OrphanGroupCount = result.Groups.Len()
	run.Report.OrphanFileCount = result.Groups.FileCount()
	run.Report.Stats.FilesScanned = result.FilesScanned
	run.Report.Stats.BytesScanned = result.BytesScanned
	return nil
}

// ConfirmStep asks the user before files are physically removed.
// It asks nothing when simulating, when there is nothing to remove, or when
// confirmation was given up front.
type ConfirmStep struct {
	confirm     ConfirmFunc
	autoConfirm bool
	logger      *slog.Logger
}

// NewConfirmStep creates a confirm step.
func NewConfirmStep(confirm ConfirmFunc, autoConfirm bool, logger *slog.Logger) *ConfirmStep {
	return &ConfirmStep{confirm: confirm, autoConfirm: autoConfirm, logger: loggerOrDefault(logger)}
}

// Name returns the step name.
func (s *ConfirmStep) Name() string {
	return StepConfirm
}

// Do executes the confirm step.
func (s *ConfirmStep) Do(ctx context.Context, run *Run) error {
	if run.Report.Simulate || run.Groups == nil || run.Groups.FileCount() == 0 || s.autoConfirm {
		return nil
	}
	if s.confirm == nil {
		return errors.New("confirmation required: rerun with --autoconfirm or --simulate")
	}

	label := fmt.Sprintf("Remove %d files in %d groups from %s",
		run.Groups.FileCount(), run.Groups.Len(), run.Report.Root)
	ok, err := s.confirm(label)
	if err != nil {
		return err
	}
	if !ok {
		run.Report.Declined = true
		s.logger.InfoContext(ctx, "removal declined, no files were touched")
	}
	return nil
}

// SweepStep removes the orphan files.
type SweepStep struct {
	deleter *sweep.Deleter
	logger  *slog.Logger
}

// NewSweepStep creates a sweep step.
func NewSweepStep(deleter *sweep.Deleter, logger *slog.Logger) *SweepStep {
	return &SweepStep{deleter: deleter, logger: loggerOrDefault(logger)}
}

// Name returns the step name.
func (s *SweepStep) Name() string {
	return StepSweep
}

// Do executes the sweep step.
func (s *SweepStep) Do(ctx context.Context, run *Run) error {
	if run.Groups == nil {
		return fmt.Errorf("%w: %s before %s", errStepOrder, StepSweep, StepScan)
	}
	if run.Report.Declined {
		return nil
	}

	result := s.deleter.Apply(ctx, run.Groups, run.Report.Simulate)
	run.Report.Stats.FilesRemoved = result.FilesRemoved
	run.Report.Stats.BytesRemoved = result.BytesRemoved
	run.Report.Failures = result.Failures

	s.logger.InfoContext(ctx, "cleanup summary",
		"files_removed", result.FilesRemoved,
		"size_removed", humanize.Bytes(uint64(max(result.BytesRemoved, 0))),
		"simulate", run.Report.Simulate,
	)
	return nil
}

// CheckStep is the post-cleanup check hook. No check is defined yet, so it
// only notes that one was requested.
type CheckStep struct {
	logger *slog.Logger
}

// NewCheckStep creates a check step.
func NewCheckStep(logger *slog.Logger) *CheckStep {
	return &CheckStep{logger: loggerOrDefault(logger)}
}

// Name returns the step name.
func (s *CheckStep) Name() string {
	return StepCheck
}

// Do executes the check step.
func (s *CheckStep) Do(ctx context.Context, run *Run) error {
	run.Report.Check = true
	s.logger.InfoContext(ctx, "post-cleanup check requested, no checks are defined")
	return nil
}

// CleanupConfig holds the collaborators of a cleanup pipeline.
type CleanupConfig struct {
	Source      FileSource
	Reconciler  *reconcile.Reconciler
	Deleter     *sweep.Deleter
	Confirm     ConfirmFunc
	AutoConfirm bool
	Check       bool
	Logger      *slog.Logger
}

// NewCleanupPipeline returns the pipeline count, exists, scan, confirm, sweep
// followed by check when cfg.Check is set.
func NewCleanupPipeline(cfg CleanupConfig) *Pipeline {
	logger := loggerOrDefault(cfg.Logger)

	p := New(WithLogger(logger))
	p.AddSteps(
		NewCountStep(cfg.Source, logger),
		NewExistsStep(cfg.Source, cfg.Reconciler),
		NewScanStep(cfg.Reconciler),
		NewConfirmStep(cfg.Confirm, cfg.AutoConfirm, logger),
		NewSweepStep(cfg.Deleter, logger),
	)
	if cfg.Check {
		p.AddStep(NewCheckStep(logger))
	}
	return p
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
