package report

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/picgc/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFailures(md, report)
	w.writeIgnored(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("picgc Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Storage Root", "`" + report.Root + "`"},
			{"Table", "`" + report.Table + "`"},
			{"Started", report.StartedAt.Format(timeLayout)},
			{"Duration", report.Duration().Round(time.Millisecond).String()},
			{"Mode", modeText(report.Simulate)},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	removed := "Files Removed"
	if report.Simulate {
		removed = "Files To Remove"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Rows In Table", humanize.Comma(report.DBRowCount)},
			{"Rows Checked", strconv.Itoa(report.CheckedRows)},
			{"Ignored Records", strconv.Itoa(len(report.IgnoredIDs))},
			{"Base Identifiers", strconv.Itoa(report.ExistsCount)},
			{"Files Scanned", strconv.Itoa(report.Stats.FilesScanned)},
			{"Bytes Scanned", formatBytes(report.Stats.BytesScanned)},
			{"Orphan Groups", strconv.Itoa(report.OrphanGroupCount)},
			{removed, strconv.Itoa(report.Stats.FilesRemoved)},
			{"Bytes Freed", formatBytes(report.Stats.BytesRemoved)},
			{"Failures", strconv.Itoa(len(report.Failures))},
		},
	})
	md.PlainText("")

	if report.Stats.BytesScanned > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of removed versus kept bytes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Storage After Cleanup (bytes)"),
		piechart.WithShowData(true),
	)

	if removed := report.Stats.BytesRemoved; removed > 0 {
		chart.LabelAndIntValue("Removed", uint64(removed))
	}
	if kept := report.BytesKept(); kept > 0 {
		chart.LabelAndIntValue("Kept", uint64(kept))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case report.Failed():
		md.Cautionf("The run was aborted: %s", report.Error)
	case report.Declined:
		md.Note("Removal was declined at the prompt. No files were touched.")
	case len(report.Failures) > 0:
		md.Warningf("%d file(s) could not be removed.", len(report.Failures))
	case report.Simulate:
		md.Importantf("Simulation only. %d file(s) would be removed.", report.Stats.FilesRemoved)
	default:
		md.Tip("Cleanup completed without errors.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(report.Failures))
	for i, f := range report.Failures {
		rows[i] = []string{"`" + f.Path + "`", f.Error}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeIgnored(md *markdown.Markdown, report *model.RunReport) {
	if len(report.IgnoredIDs) == 0 {
		return
	}

	md.H2("Ignored Records")
	md.PlainText("")
	md.Details(
		strconv.Itoa(len(report.IgnoredIDs))+" record(s) reference a missing file",
		joinIDs(report.IgnoredIDs),
	)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [picgc](https://github.com/nao1215/picgc)*")
}

// WriteHistory outputs the run history as a Markdown table.
func (w *MarkdownWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("picgc Run History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		status := "✅"
		if r.Failed {
			status = "❌"
		}
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format(timeLayout),
			modeText(r.Simulate),
			strconv.Itoa(r.FilesRemoved),
			formatBytes(r.BytesRemoved),
			status,
			"`" + r.Root + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Mode", "Removed", "Size", "Status", "Root"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
