package retry

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/manifest"
	"github.com/handiism/batch-downloader/internal/model"
	"go.uber.org/zap"
)

// State is the coordinator's position in its state machine.
type State int32

const (
	StateRunning State = iota
	StateAwaitingDecision
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAwaitingDecision:
		return "awaiting-decision"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Budget values with a special meaning. Positive values bound the number of
// retry rounds after the first round.
const (
	BudgetDisabled  = 0
	BudgetUnlimited = -1
)

// Runner executes one round. *download.Manager implements it.
type Runner interface {
	Run(ctx context.Context, items []model.WorkItem, opts download.RoundOptions) model.RunStats
}

// UI presents a run to the user.
type UI interface {
	Event(ev download.ProgressEvent)
	Summary(stats model.RunStats)
	RetryHint(artifact string)
}

// Config configures a Coordinator.
type Config struct {
	Schema manifest.Schema

	// OutputDir is the output tree; its last element names the artifact.
	OutputDir string

	// ArtifactDir receives the failed-subset manifest.
	ArtifactDir string

	// Budget is the automatic retry budget: BudgetDisabled, BudgetUnlimited
	// or a positive number of retry rounds.
	Budget int

	// Interactive asks the Decider after a failed round when Budget is
	// BudgetDisabled.
	Interactive bool

	// Verbose starts the run with verbose rounds.
	Verbose bool

	// Workers is shown in the round banner.
	Workers int

	// OnDebug is called once when a retry with diagnostics is chosen.
	OnDebug func()
}

// Result describes a finished run.
type Result struct {
	State  State
	Rounds int

	// Stats holds one entry per executed round.
	Stats []model.RunStats

	// Artifact is the failed-subset manifest left behind, empty when every
	// item was resolved.
	Artifact  string
	Remaining int
}

// Coordinator runs rounds until the manifest is resolved, the budget is
// spent, or the user declines.
type Coordinator struct {
	runner  Runner
	decider Decider
	ui      UI
	cfg     Config
	logger  *zap.Logger

	state atomic.Int32
}

// New creates a Coordinator. decider may be nil when cfg.Interactive is false.
func New(runner Runner, decider Decider, ui UI, cfg Config, logger *zap.Logger) *Coordinator {
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ui == nil {
		ui = nopUI{}
	}
	return &Coordinator{
		runner:  runner,
		decider: decider,
		ui:      ui,
		cfg:     cfg,
		logger:  logger,
	}
}

// State returns the current state. It is safe to call while Run is active.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
	c.logger.Debug("coordinator state", zap.Stringer("state", s))
}

// Run processes manifestPath and every failed subset that follows from it.
//
// Manifest errors are returned before any item is processed. Cancellation
// ends the run after the current round with the artifact written.
func (c *Coordinator) Run(ctx context.Context, manifestPath string) (Result, error) {
	var (
		res     Result
		input   = manifestPath
		budget  = c.cfg.Budget
		verbose = c.cfg.Verbose
		retries int
	)
	defer c.setState(StateDone)

	for {
		c.setState(StateRunning)
		stats, header, err := c.round(ctx, input, verbose)
		if err != nil {
			res.State = StateDone
			return res, err
		}
		res.Rounds++
		res.Stats = append(res.Stats, stats)
		c.ui.Summary(stats)

		if stats.Failed() == 0 {
			res.State = StateDone
			res.Artifact, res.Remaining = "", 0
			c.notify(download.LevelSuccess, "\n✅ All downloads completed successfully!")
			return res, nil
		}

		artifact := manifest.ArtifactPath(c.cfg.ArtifactDir, c.cfg.OutputDir, filepath.Ext(input))
		for _, f := range stats.Failures {
			c.logger.Debug("item still failing",
				zap.String("item", f.ItemID),
				zap.String("error", f.Error),
				zap.Strings("row", f.Record.Values()))
		}
		if err := manifest.Write(artifact, header, stats.FailedRecords()); err != nil {
			res.State = StateDone
			return res, fmt.Errorf("write failed-subset manifest: %w", err)
		}
		res.Artifact, res.Remaining = artifact, stats.Failed()
		c.notify(download.LevelInfo, fmt.Sprintf("\n📋 Failed downloads saved to: %s", artifact))

		if err := ctx.Err(); err != nil {
			res.State = StateDone
			c.ui.RetryHint(artifact)
			return res, err
		}

		if budget != BudgetDisabled {
			retries++
			if budget > 0 && retries > budget {
				c.notify(download.LevelWarning, fmt.Sprintf("\n⚠️  Reached maximum retry limit (%d attempts)", budget))
				c.notify(download.LevelInfo, fmt.Sprintf("📋 Remaining failures saved to: %s", filepath.Base(artifact)))
				c.ui.RetryHint(artifact)
				res.State = StateDone
				return res, nil
			}
			if budget == BudgetUnlimited {
				c.notify(download.LevelInfo, fmt.Sprintf("\n🔄 Auto-retry #%d - Retrying failed downloads...\n", retries))
			} else {
				c.notify(download.LevelInfo, fmt.Sprintf("\n🔄 Auto-retry %d/%d - Retrying failed downloads...\n", retries, budget))
			}
			input = artifact
			continue
		}

		if !c.cfg.Interactive || c.decider == nil {
			c.notify(download.LevelInfo, "\n💡 To retry failed downloads only, run:")
			c.ui.RetryHint(artifact)
			res.State = StateDone
			return res, nil
		}

		c.setState(StateAwaitingDecision)
		decision, err := c.decider.Decide(ctx, Prompt{Artifact: artifact, Remaining: stats.Failed()})
		if err != nil {
			res.State = StateDone
			c.ui.RetryHint(artifact)
			return res, err
		}
		c.logger.Debug("decision received", zap.Stringer("decision", decision))

		switch decision {
		case DecisionRetry:
			c.notify(download.LevelInfo, "\n🔄 Retrying failed downloads...\n")
		case DecisionRetryDebug:
			c.notify(download.LevelInfo, "\n🔍 Retrying failed downloads with DEBUG mode enabled...\n")
			if !verbose && c.cfg.OnDebug != nil {
				c.cfg.OnDebug()
			}
			verbose = true
		default:
			c.notify(download.LevelInfo, "\n👋 Exiting. You can retry later by running:")
			c.ui.RetryHint(artifact)
			res.State = StateDone
			return res, nil
		}
		budget = BudgetUnlimited
		retries = 0
		input = artifact
	}
}

// round loads input, runs its items and prunes input when it is a failed
// subset. It returns the round statistics and the manifest header.
func (c *Coordinator) round(ctx context.Context, input string, verbose bool) (model.RunStats, []string, error) {
	c.notify(download.LevelInfo, fmt.Sprintf("Reading manifest: %s", input))
	m, err := manifest.Load(input)
	if err != nil {
		return model.RunStats{}, nil, err
	}

	retryRound := manifest.IsFailedSubset(input)
	if retryRound {
		c.notify(download.LevelInfo, "📝 Retrying failed downloads...")
	}

	items, report, err := m.Items(c.cfg.Schema)
	if err != nil {
		return model.RunStats{}, nil, err
	}
	c.announce(report, len(items))

	stats := c.runner.Run(ctx, items, download.RoundOptions{Verbose: verbose})

	if retryRound {
		c.prune(input, stats.Resolved)
	}
	return stats, m.Header, nil
}

func (c *Coordinator) announce(report manifest.Report, items int) {
	switch {
	case report.CategoryIgnored:
		c.notify(download.LevelWarning, fmt.Sprintf("⊘ %s column found but ignored (--ignore-category set)", c.cfg.Schema.CategoryColumn))
	case report.HasCategory:
		c.notify(download.LevelSuccess, fmt.Sprintf("✓ %s column found - files will be organized by category", c.cfg.Schema.CategoryColumn))
	}
	if report.Dropped > 0 {
		c.notify(download.LevelWarning, fmt.Sprintf("⚠ Skipped %d row(s) with a missing %s or %s", report.Dropped, c.cfg.Schema.IDColumn, c.cfg.Schema.LocatorColumn))
	}
	if report.Duplicates > 0 {
		c.notify(download.LevelWarning, fmt.Sprintf("⚠ Skipped %d duplicate %s row(s)", report.Duplicates, c.cfg.Schema.IDColumn))
	}

	out := c.cfg.OutputDir
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	c.notify(download.LevelInfo, fmt.Sprintf("Found %d items to process", items))
	c.notify(download.LevelInfo, fmt.Sprintf("Output directory: %s", out))
	c.notify(download.LevelInfo, fmt.Sprintf("Workers: %d\n", max(c.cfg.Workers, 1)))
}

// prune removes resolved rows from a failed-subset input. Failures here are
// reported but do not end the run.
func (c *Coordinator) prune(input string, resolved []string) {
	res, err := manifest.Prune(input, c.cfg.Schema, resolved)
	name := filepath.Base(input)
	switch {
	case err != nil:
		c.logger.Warn("prune failed", zap.String("manifest", input), zap.Error(err))
		c.notify(download.LevelWarning, fmt.Sprintf("\n⚠ Warning: Could not update %s: %v", name, err))
	case res.Deleted:
		c.notify(download.LevelSuccess, fmt.Sprintf("\n✓ All failed items successfully downloaded. Removed %s", name))
	case res.Removed > 0:
		c.notify(download.LevelSuccess, fmt.Sprintf("\n✓ Updated %s - %d items removed, %d remaining", name, res.Removed, res.Remaining))
	}
}

func (c *Coordinator) notify(level download.ProgressLevel, msg string) {
	c.ui.Event(download.ProgressEvent{Message: msg, Level: level})
}

type nopUI struct{}

func (nopUI) Event(download.ProgressEvent) {}
func (nopUI) Summary(model.RunStats)       {}
func (nopUI) RetryHint(string)             {}
