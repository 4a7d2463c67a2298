// Package progress prints run progress and summaries as plain colored lines.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/model"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

// LineReporter writes one line per outcome. It is safe for concurrent use.
type LineReporter struct {
	out io.Writer

	mu    sync.Mutex
	total int
	done  int
}

// NewLineReporter creates a LineReporter writing to out.
func NewLineReporter(out io.Writer) *LineReporter {
	return &LineReporter{out: out}
}

// Begin resets the counter for a round of total items.
func (r *LineReporter) Begin(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.done = 0
}

// Report prints the outcome of one item.
func (r *LineReporter) Report(itemID string, out model.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++
	counter := faint.Sprintf("[%d/%d]", r.done, r.total)
	switch out.Kind {
	case model.OutcomeCompleted:
		fmt.Fprintf(r.out, "%s %s %s\n", counter, green.Sprint("✓"), itemID)
	case model.OutcomeSkipped:
		fmt.Fprintf(r.out, "%s %s %s already exists, skipping\n", counter, yellow.Sprint("⊘"), itemID)
	default:
		fmt.Fprintf(r.out, "%s %s %s: %s\n", counter, red.Sprint("✗"), itemID, out.Message)
	}
}

// End is a no-op; lines are written as they happen.
func (r *LineReporter) End() {}

// Event prints a notice colored by level.
func (r *LineReporter) Event(ev download.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	printEvent(r.out, ev)
}

func printEvent(w io.Writer, ev download.ProgressEvent) {
	switch ev.Level {
	case download.LevelSuccess:
		green.Fprintln(w, ev.Message)
	case download.LevelWarning:
		yellow.Fprintln(w, ev.Message)
	case download.LevelError:
		red.Fprintln(w, ev.Message)
	case download.LevelVerbose:
		faint.Fprintln(w, ev.Message)
	default:
		fmt.Fprintln(w, ev.Message)
	}
}
