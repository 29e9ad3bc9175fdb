package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/picgc/internal/database"
	"github.com/nao1215/picgc/internal/model"
	"github.com/nao1215/picgc/internal/report"
)

// errRunNotFound is returned by "history --id" for an unknown run.
var errRunNotFound = errors.New("run not found")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past cleanup runs",
		Long: `History lists the cleanup runs stored in the local history database,
newest first, or prints the full report of one run.

Examples:
  # List the last 20 runs
  picgc history

  # Show the report of run 12 as Markdown
  picgc history --id 12 --markdown`,
		Args: noArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("id", 0, "Show the full report of this run")
	cmd.Flags().IntP("limit", "n", database.DefaultListLimit, "Number of runs to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return &usageError{err: errors.New("--json and --markdown cannot be used together")}
	}

	w := report.NewWriter(report.FormatFor(jsonOutput, markdownOutput), cmd.OutOrStdout(), getVerboseFlag(cmd))
	dir := getHistoryDir(cmd)

	// Nothing has been recorded yet.
	if _, err := os.Stat(filepath.Join(dir, database.HistoryFileName)); os.IsNotExist(err) {
		if id != 0 {
			return fmt.Errorf("%w: %d", errRunNotFound, id)
		}
		_, err := w.WriteHistory([]model.RunSummary{})
		return err
	}

	db, err := database.Open(dir, database.Options{EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if id != 0 {
		run, err := db.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("%w: %d", errRunNotFound, id)
		}
		_, err = w.Write(run)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	_, err = w.WriteHistory(runs)
	return err
}
