package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/harrison/bytegrep/internal/config"
	"github.com/harrison/bytegrep/internal/fileutil"
	"github.com/harrison/bytegrep/internal/logger"
	"github.com/harrison/bytegrep/internal/models"
	"github.com/harrison/bytegrep/internal/report"
	"github.com/harrison/bytegrep/internal/search"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for bytegrep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bytegrep <root-path> <pattern-string>",
		Short: "Find files containing an exact byte sequence",
		Long: `bytegrep walks a directory tree and prints every regular file whose
contents contain the pattern as an exact byte sequence.

Files are read in fixed-size chunks, so matches spanning chunk boundaries
are found without loading whole files into memory. Files are scanned
concurrently by default; --mode sequential scans them one at a time and
produces the same result.

Matching paths are printed quoted, one per line, in sorted order.
Files that cannot be read are reported on stderr and treated as
non-matches unless --strict is given.

Exit code: 0 whether or not any file matched; 1 on usage, configuration
or traversal errors (and on unreadable files with --strict)`,
		Version: Version,
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], args[1])
		},
		// main prints the error; silence cobra's copy and the usage dump
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("config", "", "Path to config file (default: $BYTEGREP_CONFIG or .bytegrep/config.yaml)")
	cmd.Flags().String("mode", "", "Scheduling strategy: sequential or parallel (default from config: parallel)")
	cmd.Flags().Int("max-concurrency", 0, "Maximum number of files scanned at once in parallel mode (0 = unlimited)")
	cmd.Flags().Int("buffer-size", 0, "Minimum read buffer per file in bytes (at least 8192)")
	cmd.Flags().Bool("strict", false, "Exit non-zero when any file could not be read")
	cmd.Flags().String("log-level", "", "Log verbosity on stderr: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for per-run log files")
	cmd.Flags().String("output", "", "Also write the results to this file")
	cmd.Flags().StringArray("exclude-dir", nil, "Directory name to skip during traversal (repeatable)")
	cmd.Flags().Int("max-depth", 0, "Limit traversal depth (0 = unlimited, 1 = root directory only)")
	cmd.Flags().Bool("progress", false, "Show a progress bar on stderr")

	return cmd
}

// exactArgs wraps cobra.ExactArgs so argument count problems surface as usage errors
func exactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &models.UsageError{Message: cmd.UseLine(), Err: err}
		}
		return nil
	}
}

// loadConfig loads the config file and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var overrides config.FlagOverrides
	flags := cmd.Flags()
	if flags.Changed("mode") {
		v, _ := flags.GetString("mode")
		overrides.Mode = &v
	}
	if flags.Changed("max-concurrency") {
		v, _ := flags.GetInt("max-concurrency")
		overrides.MaxConcurrency = &v
	}
	if flags.Changed("buffer-size") {
		v, _ := flags.GetInt("buffer-size")
		overrides.BufferSize = &v
	}
	if flags.Changed("strict") {
		v, _ := flags.GetBool("strict")
		overrides.Strict = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		overrides.LogDir = &v
	}
	if flags.Changed("exclude-dir") {
		v, _ := flags.GetStringArray("exclude-dir")
		overrides.ExcludeDirs = v
	}
	if flags.Changed("max-depth") {
		v, _ := flags.GetInt("max-depth")
		overrides.MaxDepth = &v
	}
	if flags.Changed("progress") {
		v, _ := flags.GetBool("progress")
		overrides.Progress = &v
	}
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildObservers assembles the console logger plus the optional run log and
// progress bar. The returned cleanup closes the run log.
func buildObservers(cmd *cobra.Command, cfg *config.Config) (search.Observer, func(), error) {
	console := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	observers := search.MultiObserver{console}
	cleanup := func() {}

	if cfg.LogDir != "" {
		fileLogger, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to create run log: %w", err)
		}
		console.LogInfo(fmt.Sprintf("Run log: %s", fileLogger.Path()))
		observers = append(observers, fileLogger)
		cleanup = func() {
			if err := fileLogger.Close(); err != nil {
				console.LogWarn(err.Error())
			}
		}
	}

	if cfg.Progress {
		observers = append(observers, logger.NewProgressObserver(cmd.ErrOrStderr()))
	}

	return observers, cleanup, nil
}

func runSearch(cmd *cobra.Command, rootPath, patternArg string) error {
	pattern, err := models.NewPattern(patternArg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := fileutil.NewOSFS()
	traversal, err := fileutil.CollectFiles(fs, rootPath, fileutil.ScanOptions{
		ExcludeDirs: cfg.ExcludeDirs,
		MaxDepth:    cfg.MaxDepth,
	})
	if err != nil {
		return err
	}

	strategy, err := search.StrategyForMode(cfg.Mode, cfg.MaxConcurrency)
	if err != nil {
		return err
	}

	observer, cleanup, err := buildObservers(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	scanner := search.NewChunkedScanner(fs, search.WithMinBufferSize(cfg.BufferSize))
	orchestrator := search.NewOrchestrator(scanner,
		search.WithStrategy(strategy),
		search.WithObserver(observer),
		search.WithStrictErrors(cfg.Strict),
	)

	result, runErr := orchestrator.Run(ctx, traversal.Files, pattern)
	if ctx.Err() != nil {
		return fmt.Errorf("scan interrupted: %w", ctx.Err())
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if err := report.NewWriter(cmd.OutOrStdout(), outputPath).Write(result.Matches); err != nil {
		return err
	}

	// Strict mode reports unreadable files only after the results are printed
	return runErr
}
