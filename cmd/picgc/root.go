package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/picgc/internal/config"
)

// Process exit codes.
const (
	exitOK          = 0
	exitInvalidArgs = -1
	exitExecError   = -3
)

// usageError marks errors caused by invalid flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// NewRootCmd creates the root command for picgc.
// Running it without a subcommand performs a cleanup.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picgc",
		Short: "Remove storage files no database record refers to",
		Long: `picgc reads every file reference from a database table, scans the storage
directory and removes the files that no record refers to.

Files are matched by their base identifier: the first 32 characters of the
file name without extension. All files sharing a base identifier with a live
record are kept, so thumbnails and resized copies survive with their original.
Files with shorter names are never removed.

Run with --simulate first to see what would be removed.

Examples:
  # Show what would be removed
  picgc --simulate

  # Remove orphans without asking, write a JSON report
  picgc --autoconfirm --json -o reports/cleanup.json

  # Use a specific configuration file
  picgc --config /etc/picgc/config.json`,
		Version:       getVersion(),
		Args:          noArgs,
		RunE:          runCleanCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("history-dir", config.XDGDataDir(),
		"Directory of the run history database")

	addCleanFlags(cmd)

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exitCode maps an error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitInvalidArgs
	}
	return exitExecError
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

// Execute runs the root command and exits the process.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
