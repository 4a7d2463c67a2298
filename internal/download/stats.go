package download

import (
	"sync"

	"github.com/handiism/batch-downloader/internal/model"
)

// Aggregator accumulates outcomes for one round. It is safe for
// concurrent use.
type Aggregator struct {
	mu    sync.Mutex
	stats model.RunStats
}

// NewAggregator creates an Aggregator for a round of total items.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{stats: model.RunStats{Total: total}}
}

// Record adds the outcome of item.
func (a *Aggregator) Record(item model.WorkItem, out model.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if out.OK() {
		a.stats.Resolved = append(a.stats.Resolved, item.ID)
	}
	switch out.Kind {
	case model.OutcomeCompleted:
		a.stats.Completed++
	case model.OutcomeSkipped:
		a.stats.Skipped++
	default:
		a.stats.Failures = append(a.stats.Failures, model.FailureRecord{
			ItemID:  item.ID,
			Locator: item.Locator,
			Error:   out.Message,
			Record:  item.Record,
		})
	}
}

// Snapshot returns a copy of the current statistics.
func (a *Aggregator) Snapshot() model.RunStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.stats
	s.Failures = append([]model.FailureRecord(nil), a.stats.Failures...)
	s.Resolved = append([]string(nil), a.stats.Resolved...)
	return s
}
