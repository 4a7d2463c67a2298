package tui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/model"
)

func apply(m Model, msgs ...any) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelCountsOutcomes(t *testing.T) {
	m := apply(NewModel(4),
		OutcomeMsg{ItemID: "A1", Outcome: model.Skipped("out/A1.jpg")},
		OutcomeMsg{ItemID: "A2", Outcome: model.Completed("out/A2.jpg")},
		OutcomeMsg{ItemID: "A3", Outcome: model.Failed(model.ErrRetrieval, "no file returned")},
	)

	if m.completed != 1 || m.skipped != 1 || m.failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", m.completed, m.skipped, m.failed)
	}
	if got := m.Percent(); got != 0.75 {
		t.Errorf("Percent() = %v, want 0.75", got)
	}

	view := m.View()
	for _, want := range []string{"Processing 3/4", "Completed: 1 | Skipped: 1 | Failed: 1", "A3: no file returned"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModelKeepsLastLogs(t *testing.T) {
	m := NewModel(0)
	for i := 0; i < 15; i++ {
		m = apply(m, EventMsg{Event: download.ProgressEvent{Message: fmt.Sprintf("event %d", i), Level: download.LevelInfo}})
	}

	if len(m.logs) != maxLogs {
		t.Fatalf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
	if m.logs[0].Message != "event 5" {
		t.Errorf("oldest log = %q, want %q", m.logs[0].Message, "event 5")
	}
}

func TestModelEndQuits(t *testing.T) {
	next, cmd := NewModel(1).Update(EndMsg{})
	if next.(Model).state != StateDone {
		t.Error("state not done after EndMsg")
	}
	if cmd == nil {
		t.Error("EndMsg must return a quit command")
	}
}

func TestEmptyRoundIsComplete(t *testing.T) {
	if got := NewModel(0).Percent(); got != 1 {
		t.Errorf("Percent() = %v, want 1", got)
	}
}

func TestReporterRound(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Begin(2)
	r.Report("A1", model.Completed("out/A1.jpg"))
	r.Report("A2", model.Failed(model.ErrRetrieval, "no file returned"))
	r.End()

	if !strings.Contains(buf.String(), "Failed: 1") {
		t.Errorf("final frame missing counts:\n%s", buf.String())
	}

	buf.Reset()
	r.Event(download.ProgressEvent{Message: "between rounds"})
	if !strings.Contains(buf.String(), "between rounds") {
		t.Errorf("Event outside a round = %q", buf.String())
	}
}
