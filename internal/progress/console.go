package progress

import (
	"io"

	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/model"
)

// EventSink receives notices.
type EventSink interface {
	Event(ev download.ProgressEvent)
}

// Console is the terminal face of a run: notices go to the active
// reporter, summaries and hints are printed directly.
type Console struct {
	out    io.Writer
	events EventSink
	hint   HintConfig
}

// NewConsole creates a Console. A nil sink prints notices to out.
func NewConsole(out io.Writer, events EventSink, hint HintConfig) *Console {
	if events == nil {
		events = NewLineReporter(out)
	}
	return &Console{out: out, events: events, hint: hint}
}

// Event forwards a notice to the sink.
func (c *Console) Event(ev download.ProgressEvent) {
	c.events.Event(ev)
}

// Summary prints the round totals.
func (c *Console) Summary(stats model.RunStats) {
	PrintSummary(c.out, stats)
}

// RetryHint prints the rerun command for artifact.
func (c *Console) RetryHint(artifact string) {
	PrintRetryHint(c.out, c.hint, artifact)
}
