package tui

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/model"
)

// Reporter renders each round as a Bubble Tea program.
//
// A fresh program is started by Begin and torn down by End, so the terminal
// is free between rounds for summaries and prompts. Signals are left to the
// caller.
type Reporter struct {
	out io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewReporter creates a Reporter drawing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Begin starts the display for a round of total items.
func (r *Reporter) Begin(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := tea.NewProgram(NewModel(total),
		tea.WithOutput(r.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
	r.program = p
	r.done = done
}

// Report shows the outcome of one item.
func (r *Reporter) Report(itemID string, outcome model.Outcome) {
	r.send(OutcomeMsg{ItemID: itemID, Outcome: outcome})
}

// Event shows a notice. Outside a round it is printed as a plain line.
func (r *Reporter) Event(ev download.ProgressEvent) {
	if !r.send(EventMsg{Event: ev}) {
		fmt.Fprintln(r.out, ev.Message)
	}
}

// End stops the display and waits for the final frame.
func (r *Reporter) End() {
	r.mu.Lock()
	p, done := r.program, r.done
	r.program, r.done = nil, nil
	r.mu.Unlock()

	if p == nil {
		return
	}
	p.Send(EndMsg{})
	<-done
}

func (r *Reporter) send(msg tea.Msg) bool {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()

	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}
