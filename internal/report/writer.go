package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/picgc/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report of one run.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)

	// WriteHistory outputs a run history listing.
	WriteHistory(runs []model.RunSummary) (int, error)
}

// Format selects a Writer implementation.
type Format string

const (
	// FormatText is the human-readable text format.
	FormatText Format = "text"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
	// FormatMarkdown is the Markdown format.
	FormatMarkdown Format = "markdown"
)

// FormatFor returns the format selected by the --json and --markdown flags.
func FormatFor(jsonOutput, markdownOutput bool) Format {
	switch {
	case jsonOutput:
		return FormatJSON
	case markdownOutput:
		return FormatMarkdown
	default:
		return FormatText
	}
}

// NewWriter returns the Writer for format. Unknown formats fall back to text.
func NewWriter(format Format, output io.Writer, verbose bool) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output, WithVerbose(verbose))
	}
}

// CreateFile creates (or truncates) the report file at path, creating parent
// directories as needed.
func CreateFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every timestamp in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func modeText(simulate bool) string {
	if simulate {
		return "simulate"
	}
	return "delete"
}

func statusText(report *model.RunReport) string {
	switch {
	case report.Failed():
		return "ERROR - " + report.Error
	case report.Declined:
		return "Declined (no files removed)"
	case len(report.Failures) > 0:
		return fmt.Sprintf("Complete with %d failure(s)", len(report.Failures))
	default:
		return "Complete"
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = humanize.Comma(id)
	}
	return strings.Join(parts, ", ")
}
