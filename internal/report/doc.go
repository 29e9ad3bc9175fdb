// Package report renders run reports and the run history.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: structured JSON for scripts and monitoring
//   - MarkdownWriter: Markdown with tables and a mermaid chart, for sharing
//
// Writers implement the Writer interface, so the CLI picks one by Format
// and uses it the same way regardless of the output format.
package report
