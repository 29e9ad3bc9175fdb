package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/picgc/internal/model"
)

// Run is the state shared by the steps of one cleanup.
type Run struct {
	// Report accumulates the results of every step.
	Report *model.RunReport

	// Exists is filled by the exists step.
	Exists model.ExistsSet

	// Groups is filled by the scan step.
	Groups *model.OrphanGroups
}

// NewRun returns a Run around report.
func NewRun(report *model.RunReport) *Run {
	return &Run{Report: report}
}

// Step is one phase of a cleanup.
type Step interface {
	// Do executes the step. A returned error aborts the cleanup;
	// per-item problems are recorded in the report instead.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging and the report.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and stops at the first error, which is
// also recorded in the report. The context is checked before each step.
// FinishedAt is set on return whatever the outcome.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	report := run.Report
	defer func() {
		report.FinishedAt = time.Now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.Error = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			report.Error = err.Error()
			return err
		}

		p.logger.Debug("step completed", "step", step.Name())
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
