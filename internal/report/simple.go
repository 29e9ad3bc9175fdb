package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/picgc/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists ignored record IDs and every failure.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// maxFailuresShown bounds the failures listed without verbose output.
const maxFailuresShown = 10

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeDatabase(&sb, report)
	w.writeDirectory(&sb, report)
	w.writeCleanup(&sb, report)
	w.writeFooter(&sb, report)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          PICGC RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Storage root:   %s\n", report.Root)
	fmt.Fprintf(sb, "Table:          %s\n", report.Table)
	fmt.Fprintf(sb, "Started:        %s\n", report.StartedAt.Format(timeLayout))
	fmt.Fprintf(sb, "Duration:       %s\n", report.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Mode:           %s\n", modeText(report.Simulate))
	fmt.Fprintf(sb, "Status:         %s\n", statusText(report))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDatabase(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("DATABASE\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  Rows in table:     %s\n", humanize.Comma(report.DBRowCount))
	fmt.Fprintf(sb, "  Rows checked:      %s\n", humanize.Comma(int64(report.CheckedRows)))
	fmt.Fprintf(sb, "  Ignored records:   %s (file missing on disk)\n", humanize.Comma(int64(len(report.IgnoredIDs))))
	fmt.Fprintf(sb, "  Base identifiers:  %s\n", humanize.Comma(int64(report.ExistsCount)))
	if w.verbose && len(report.IgnoredIDs) > 0 {
		fmt.Fprintf(sb, "  Ignored IDs:       %s\n", joinIDs(report.IgnoredIDs))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDirectory(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("DIRECTORY\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  Files scanned:     %s (%s)\n",
		humanize.Comma(int64(report.Stats.FilesScanned)), formatBytes(report.Stats.BytesScanned))
	fmt.Fprintf(sb, "  Orphan groups:     %s\n", humanize.Comma(int64(report.OrphanGroupCount)))
	fmt.Fprintf(sb, "  Orphan files:      %s\n", humanize.Comma(int64(report.OrphanFileCount)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCleanup(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("CLEANUP\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")

	label := "Files removed:"
	if report.Simulate {
		label = "Would remove:"
	}
	fmt.Fprintf(sb, "  %-19s%s (%s)\n", label,
		humanize.Comma(int64(report.Stats.FilesRemoved)), formatBytes(report.Stats.BytesRemoved))
	fmt.Fprintf(sb, "  Space kept:        %s\n", formatBytes(report.BytesKept()))
	fmt.Fprintf(sb, "  Failures:          %d\n", len(report.Failures))

	for i, f := range report.Failures {
		if !w.verbose && i == maxFailuresShown {
			fmt.Fprintf(sb, "    ... %d more (use --verbose)\n", len(report.Failures)-maxFailuresShown)
			break
		}
		fmt.Fprintf(sb, "    %s: %s\n", f.Path, f.Error)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.RunReport) {
	if len(report.PerformedSteps) > 0 {
		fmt.Fprintf(sb, "Steps: %s\n", strings.Join(report.PerformedSteps, " -> "))
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// WriteHistory outputs the run history as an aligned table.
func (w *SimpleWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s  %-23s  %-8s  %9s  %10s  %-6s  %s\n",
		"ID", "STARTED", "MODE", "REMOVED", "SIZE", "STATUS", "ROOT")
	for _, r := range runs {
		status := "ok"
		if r.Failed {
			status = "error"
		}
		fmt.Fprintf(&sb, "%-6d  %-23s  %-8s  %9s  %10s  %-6s  %s\n",
			r.ID,
			r.StartedAt.Local().Format(timeLayout),
			modeText(r.Simulate),
			humanize.Comma(int64(r.FilesRemoved)),
			formatBytes(r.BytesRemoved),
			status,
			r.Root,
		)
	}
	return io.WriteString(w.output, sb.String())
}
