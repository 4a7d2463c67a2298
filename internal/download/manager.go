package download

import (
	"context"
	"fmt"

	"github.com/handiism/batch-downloader/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a human readable notice emitted while a run progresses.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Processor handles one work item on a worker slot.
type Processor interface {
	Process(ctx context.Context, item model.WorkItem, slot int) model.Outcome
}

// RoundOptions tunes a single round.
type RoundOptions struct {
	// Verbose is forwarded to the engine for every item of the round.
	Verbose bool
}

// Manager runs rounds of work items.
type Manager struct {
	processor Processor
	reporter  Reporter
	workers   int
	logger    *zap.Logger
}

// NewManager creates a Manager running up to workers items at a time.
// A nil reporter discards progress.
func NewManager(p Processor, reporter Reporter, workers int, logger *zap.Logger) *Manager {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		processor: p,
		reporter:  reporter,
		workers:   workers,
		logger:    logger,
	}
}

// Run processes items and returns the round statistics.
//
// Every item produces exactly one outcome, including when ctx is canceled.
func (m *Manager) Run(ctx context.Context, items []model.WorkItem, opts RoundOptions) model.RunStats {
	ctx = withVerbose(ctx, opts.Verbose)
	agg := NewAggregator(len(items))

	m.reporter.Begin(len(items))
	defer m.reporter.End()

	m.logger.Debug("round started",
		zap.Int("items", len(items)),
		zap.Int("workers", m.workers),
		zap.Bool("verbose", opts.Verbose))

	if m.workers == 1 || len(items) <= 1 {
		m.runSequential(ctx, items, agg)
	} else {
		m.runPool(ctx, items, agg)
	}

	stats := agg.Snapshot()
	m.logger.Debug("round finished",
		zap.Int("processed", stats.Processed()),
		zap.Int("completed", stats.Completed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed()))
	return stats
}

func (m *Manager) runSequential(ctx context.Context, items []model.WorkItem, agg *Aggregator) {
	for _, item := range items {
		m.record(agg, item, m.runTask(ctx, item, 0))
	}
}

type taskResult struct {
	index   int
	outcome model.Outcome
}

// runPool stripes items over worker slots: slot s runs items s, s+W, s+2W...
//
// One goroutine serves each slot, which bounds concurrency at W and keeps a
// slot's session exclusive to the item it is running.
func (m *Manager) runPool(ctx context.Context, items []model.WorkItem, agg *Aggregator) {
	workers := min(m.workers, len(items))

	pending := make(map[int]model.WorkItem, len(items))
	for i, item := range items {
		pending[i] = item
	}

	results := make(chan taskResult, workers)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			item, ok := pending[r.index]
			if !ok {
				m.logger.Warn("duplicate outcome dropped", zap.Int("index", r.index))
				continue
			}
			delete(pending, r.index)
			m.record(agg, item, r.outcome)
		}
	}()

	var g errgroup.Group
	for slot := 0; slot < workers; slot++ {
		g.Go(func() error {
			for i := slot; i < len(items); i += workers {
				results <- taskResult{index: i, outcome: m.runTask(ctx, items[i], slot)}
			}
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-collected

	for i := range items {
		if item, ok := pending[i]; ok {
			m.record(agg, item, model.Failed(model.ErrUnexpected, "task produced no outcome"))
		}
	}
}

// runTask is the pool boundary: a panicking processor becomes a failure.
func (m *Manager) runTask(ctx context.Context, item model.WorkItem, slot int) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("worker fault", zap.String("item", item.ID), zap.Int("slot", slot), zap.Any("panic", r))
			out = model.Failed(model.ErrUnexpected, fmt.Sprintf("worker fault: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return model.Failed(model.ErrCanceled, "canceled: "+err.Error())
	}
	return m.processor.Process(ctx, item, slot)
}

func (m *Manager) record(agg *Aggregator, item model.WorkItem, out model.Outcome) {
	agg.Record(item, out)
	m.reporter.Report(item.ID, out)
	m.logger.Debug("item finished",
		zap.String("item", item.ID),
		zap.Stringer("outcome", out.Kind),
		zap.String("message", out.Message))
}
