package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nao1215/picgc/internal/config"
	"github.com/nao1215/picgc/internal/database"
	"github.com/nao1215/picgc/internal/fsscan"
	applog "github.com/nao1215/picgc/internal/log"
	"github.com/nao1215/picgc/internal/model"
	"github.com/nao1215/picgc/internal/pathmap"
	"github.com/nao1215/picgc/internal/pipeline"
	"github.com/nao1215/picgc/internal/prompt"
	"github.com/nao1215/picgc/internal/reconcile"
	"github.com/nao1215/picgc/internal/report"
	"github.com/nao1215/picgc/internal/sweep"
)

// dotEnvFile is loaded from the working directory before the environment
// overrides are applied.
const dotEnvFile = ".env"

// addCleanFlags registers the flags of the cleanup run.
func addCleanFlags(cmd *cobra.Command) {
	// Behaviour
	cmd.Flags().BoolP("simulate", "s", false,
		"Report what would be removed without removing anything")
	cmd.Flags().BoolP("autoconfirm", "y", false,
		"Remove files without asking for confirmation")
	cmd.Flags().BoolP("check", "c", false,
		"Run the post-cleanup check")
	cmd.Flags().BoolP("debug", "d", false,
		"Log SQL statements and the classification of every file")

	// Configuration file
	cmd.Flags().String("config", "",
		"Configuration file path (default: ./config.json, ./.picgc.yaml, XDG config or ~/.picgc.yaml)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not store this run in the history database")
}

// runCleanCmd executes a cleanup.
func runCleanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	logger.Debug("options provided",
		"root", cfg.Files.Path,
		"table", cfg.Files.Table,
		"driver", cfg.DB.Driver,
		"simulate", cfg.Simulate,
		"autoconfirm", cfg.AutoConfirm,
		"check", cfg.Check,
		"debug", cfg.Debug,
	)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping after the current step...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCleanup(ctx, cfg, logger, cmd.OutOrStdout(), prompt.Confirm)
}

// buildConfig loads the configuration file, applies the environment and then
// the command line flags, and validates the result.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise fall back to defaults.
	cfg := config.NewConfig()
	if path := config.FindConfigFile(configFlag); path != "" {
		cfg, err = config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if configFlag != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configFlag)
	}

	cfg.ApplyEnv(os.LookupEnv)

	if cfg.Simulate, err = cmd.Flags().GetBool("simulate"); err != nil {
		return nil, err
	}
	if cfg.AutoConfirm, err = cmd.Flags().GetBool("autoconfirm"); err != nil {
		return nil, err
	}
	if cfg.Check, err = cmd.Flags().GetBool("check"); err != nil {
		return nil, err
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || debug
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.HistoryDir = getHistoryDir(cmd)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ResolveFilesPath(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getHistoryDir retrieves the history directory from the root flags.
func getHistoryDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// setupLogger creates the secret-masking logger writing to w.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return applog.NewSecureLogger(w, applog.Options{
		Verbose: cfg.Verbose,
		Debug:   cfg.Debug,
	})
}

// runCleanup connects to the database, runs the cleanup pipeline, stores the
// run in the history database and writes the report. The report is written
// even when the pipeline fails.
func runCleanup(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer, confirm pipeline.ConfirmFunc) error {
	start := time.Now()
	logger.Info("cleaning up files task started",
		"root", cfg.Files.Path,
		"table", cfg.Files.Table,
		"simulate", cfg.Simulate,
	)

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("db connection initialized", "driver", cfg.DB.Driver)

	table, err := database.NewFileTable(db, cfg.Files.Table)
	if err != nil {
		return err
	}
	if cfg.Debug {
		logger.Debug("sql count", "query", table.CountQuery())
		logger.Debug("sql scan", "query", table.RecordsQuery())
	}

	scanner := fsscan.New(afero.NewOsFs())
	normalizer := pathmap.Normalizer{Root: cfg.Files.Path, Fragment: cfg.Files.Prefix}
	reconciler := reconcile.New(normalizer, scanner,
		reconcile.WithLogger(logger),
		reconcile.WithDebug(cfg.Debug),
		reconcile.WithBaseLength(cfg.Files.BaseLength),
	)

	p := pipeline.NewCleanupPipeline(pipeline.CleanupConfig{
		Source:      table,
		Reconciler:  reconciler,
		Deleter:     sweep.New(scanner.Fs(), logger),
		Confirm:     confirm,
		AutoConfirm: cfg.AutoConfirm,
		Check:       cfg.Check,
		Logger:      logger,
	})

	runReport := model.NewRunReport(cfg.Files.Path, cfg.Files.Table, cfg.Simulate, cfg.Check)
	runErr := p.Execute(ctx, pipeline.NewRun(runReport))

	if cfg.SaveHistory {
		saveRun(ctx, cfg.HistoryDir, runReport, logger)
	}

	if err := outputReport(cfg, runReport, stdout); err != nil {
		if runErr != nil {
			return runErr
		}
		return err
	}

	logger.Info("cleaning up files task finished",
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return runErr
}

// saveRun stores the report in the history database. Failures are logged
// and never fail the run.
func saveRun(ctx context.Context, dir string, runReport *model.RunReport, logger *slog.Logger) {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", dir, "error", err)
		return
	}
	defer db.Close()

	// The run context may already be cancelled; the record is still wanted.
	id, err := db.SaveRun(context.WithoutCancel(ctx), runReport)
	if err != nil {
		logger.Warn("failed to save run", "error", err)
		return
	}
	logger.Debug("run saved to history", "id", id, "path", db.Path())
}

// outputReport writes the run report in the requested format to the report
// file or stdout.
func outputReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		f, err := report.CreateFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	w := report.NewWriter(report.FormatFor(cfg.JSONReport, cfg.MarkdownReport), output, cfg.Verbose)
	_, err := w.Write(runReport)
	return err
}
