// Package cli implements the batch-dl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/handiism/batch-downloader/internal/browser"
	"github.com/handiism/batch-downloader/internal/config"
	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/http"
	ioutils "github.com/handiism/batch-downloader/internal/io"
	"github.com/handiism/batch-downloader/internal/logging"
	"github.com/handiism/batch-downloader/internal/manifest"
	"github.com/handiism/batch-downloader/internal/progress"
	"github.com/handiism/batch-downloader/internal/retry"
	"github.com/handiism/batch-downloader/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitFailures = 2
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// SetBuildInfo records version information shown by --version.
func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}

// Env holds the process surroundings of a command. Zero fields fall back to
// the real process streams and the engine named in the settings.
type Env struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// NewRetriever builds the download engine.
	NewRetriever func(s *config.Settings, logger *zap.Logger) (download.Retriever, error)
}

// exitError carries a specific exit code out of RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var errFailuresRemain = errors.New("some items could not be downloaded")

type options struct {
	configPath     string
	workers        int
	retry          int
	interactive    bool
	debug          bool
	ignoreCategory bool
	engine         string
	progress       string
	logFile        string
	artifactDir    string
}

// NewRootCommand builds the batch-dl command.
func NewRootCommand(env Env) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "batch-dl <manifest> <output-dir>",
		Short: "Download the assets listed in a spreadsheet manifest",
		Long: `batch-dl reads a CSV or Excel manifest and downloads one asset per row
into an output directory, naming each file after the row's id.

Rows need an id column (default UPC) and a locator column (default
IMAGES LINK). An optional CATEGORY column sorts files into subdirectories.
Files that already exist are skipped, so a run can be repeated safely.

Rows that fail are written to failed_<output-dir name><ext> in the artifact
directory. Pass that file back in to retry only the failures; resolved rows
are removed from it as they succeed.

Examples:
	# Download with four workers
	batch-dl items.xlsx out --workers 4

	# Retry failures automatically, at most twice
	batch-dl items.xlsx out --retry 2

	# Retry until everything succeeds
	batch-dl items.xlsx out --retry

	# Ask what to do after failures
	batch-dl items.xlsx out --interactive

Exit codes:
	0 = every item downloaded or already present
	1 = fatal error (bad flags, unreadable or invalid manifest)
	2 = some items still failing`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, opts, args[0], args[1])
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	if env.In != nil {
		cmd.SetIn(env.In)
	}
	if env.Out != nil {
		cmd.SetOut(env.Out)
	}
	if env.Err != nil {
		cmd.SetErr(env.Err)
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Settings file (.json, .yaml or .yml)")
	f.IntVarP(&opts.workers, "workers", "w", 1, "Number of items downloaded at the same time")
	f.IntVarP(&opts.retry, "retry", "r", 0, "Automatic retry rounds: N, or -1 / no value for unlimited")
	f.Lookup("retry").NoOptDefVal = "-1"
	f.BoolVar(&opts.interactive, "interactive", false, "Ask whether to retry after a round with failures")
	f.BoolVarP(&opts.debug, "debug", "d", false, "Enable verbose debug output for troubleshooting")
	f.BoolVar(&opts.ignoreCategory, "ignore-category", false, "Store every file directly in the output directory")
	f.StringVar(&opts.engine, "engine", config.EngineHTTP, "Download engine: http or browser")
	f.StringVar(&opts.progress, "progress", config.ProgressLines, "Progress display: lines or bar")
	f.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")
	f.StringVar(&opts.artifactDir, "artifact-dir", "", "Directory for the failed-subset manifest (default: working directory)")

	return cmd
}

// Execute runs the command with the process arguments and returns the exit
// code.
func Execute() int {
	cmd := NewRootCommand(Env{})
	cmd.SetArgs(joinRetryCount(os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.code != ExitFailures {
				fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("✗ Error: %v", err))
			}
			return exit.code
		}
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("✗ Error: %v", err))
		return ExitError
	}
	return ExitOK
}

// joinRetryCount rewrites "--retry N" and "-r N" to "--retry=N".
//
// The retry count is optional, so the flag parser never consumes a
// separate value on its own. A following argument is taken as the count
// only when it is an integer; anything after "--" is left alone.
func joinRetryCount(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		if (a == "--retry" || a == "-r") && i+1 < len(args) {
			if _, err := strconv.Atoi(args[i+1]); err == nil {
				out = append(out, "--retry="+args[i+1])
				i++
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// settingsFor loads the settings file and applies the flags that were set
// on the command line.
func settingsFor(cmd *cobra.Command, opts options) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	f := cmd.Flags()
	if f.Changed("workers") {
		settings.Workers = opts.workers
	}
	if f.Changed("retry") {
		settings.Retry = opts.retry
	}
	if f.Changed("interactive") {
		settings.Interactive = opts.interactive
	}
	if f.Changed("debug") {
		settings.Debug = opts.debug
	}
	if f.Changed("ignore-category") {
		settings.IgnoreCategory = opts.ignoreCategory
	}
	if f.Changed("engine") {
		settings.Engine = opts.engine
	}
	if f.Changed("progress") {
		settings.Progress = opts.progress
	}
	if f.Changed("log-file") {
		settings.LogFile = opts.logFile
	}
	if f.Changed("artifact-dir") {
		settings.ArtifactDir = opts.artifactDir
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func defaultRetriever(s *config.Settings, logger *zap.Logger) (download.Retriever, error) {
	switch s.Engine {
	case config.EngineBrowser:
		bopts := s.ToBrowserOptions()
		bopts.Logger = logger.Named("browser")
		return browser.New(bopts), nil
	case config.EngineHTTP:
		copts := s.ToClientOptions()
		copts.Logger = logger.Named("http")
		return http.NewClient(copts), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", s.Engine)
	}
}

func run(cmd *cobra.Command, env Env, opts options, manifestPath, outputDir string) error {
	settings, err := settingsFor(cmd, opts)
	if err != nil {
		return &exitError{code: ExitError, err: err}
	}

	if !manifest.Supported(manifestPath) {
		return &exitError{code: ExitError, err: fmt.Errorf("%s: %w", manifestPath, manifest.ErrUnsupportedFormat)}
	}
	if !ioutils.FileExists(manifestPath) {
		return &exitError{code: ExitError, err: fmt.Errorf("manifest %s not found", manifestPath)}
	}
	if err := ioutils.EnsureDir(outputDir); err != nil {
		return &exitError{code: ExitError, err: fmt.Errorf("create output directory: %w", err)}
	}

	logger, err := logging.New(logging.Options{Debug: settings.Debug, File: settings.LogFile})
	if err != nil {
		return &exitError{code: ExitError, err: err}
	}
	defer func() { _ = logger.Sync() }()

	newRetriever := env.NewRetriever
	if newRetriever == nil {
		newRetriever = defaultRetriever
	}
	retriever, err := newRetriever(settings, logger.Logger)
	if err != nil {
		return &exitError{code: ExitError, err: err}
	}

	out := cmd.OutOrStdout()
	var reporter interface {
		download.Reporter
		progress.EventSink
	}
	if settings.Progress == config.ProgressBar {
		reporter = tui.NewReporter(out)
	} else {
		reporter = progress.NewLineReporter(out)
	}

	pipeline := download.NewPipeline(retriever, settings.ToPipelineConfig(outputDir), logger.Named("pipeline"))
	manager := download.NewManager(pipeline, reporter, settings.Workers, logger.Named("manager"))
	console := progress.NewConsole(out, reporter, progress.HintConfig{
		Program:   cmd.Root().Name(),
		OutputDir: outputDir,
		Workers:   settings.Workers,
	})

	var decider retry.Decider
	if settings.Interactive {
		decider = retry.NewPromptDecider(cmd.InOrStdin(), out)
	}

	coord := retry.New(manager, decider, console, retry.Config{
		Schema:      settings.ToSchema(),
		OutputDir:   outputDir,
		ArtifactDir: settings.ArtifactDir,
		Budget:      settings.Retry,
		Interactive: settings.Interactive,
		Verbose:     logger.DebugEnabled(),
		Workers:     settings.Workers,
		OnDebug:     logger.SetDebug,
	}, logger.Named("retry"))

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("run started",
		zap.String("manifest", manifestPath),
		zap.String("output", outputDir),
		zap.String("engine", settings.Engine),
		zap.Int("workers", settings.Workers),
		zap.Int("retry", settings.Retry))

	res, err := coord.Run(ctx, manifestPath)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			console.Event(download.ProgressEvent{Message: "\nInterrupted, cancelled remaining items.", Level: download.LevelWarning})
			return &exitError{code: ExitFailures, err: err}
		}
		return &exitError{code: ExitError, err: err}
	}
	if res.Remaining > 0 {
		return &exitError{code: ExitFailures, err: errFailuresRemain}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
