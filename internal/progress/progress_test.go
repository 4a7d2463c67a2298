package progress

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf)

	r.Begin(3)
	r.Report("A1", model.Skipped("out/A1.jpg"))
	r.Report("A2", model.Completed("out/A2.jpg"))
	r.Report("A3", model.Failed(model.ErrRetrieval, "no file returned"))
	r.End()

	want := []string{
		"[1/3] ⊘ A1 already exists, skipping",
		"[2/3] ✓ A2",
		"[3/3] ✗ A3: no file returned",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineReporterResetsPerRound(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf)

	r.Begin(1)
	r.Report("A1", model.Completed("x"))
	buf.Reset()
	r.Begin(1)
	r.Report("A1", model.Skipped("x"))

	if !strings.HasPrefix(buf.String(), "[1/1]") {
		t.Errorf("counter not reset: %q", buf.String())
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, model.RunStats{
		Total:     3,
		Completed: 1,
		Skipped:   1,
		Failures:  []model.FailureRecord{{ItemID: "A3", Locator: "http://x/3", Error: "no file returned"}},
	})

	out := buf.String()
	for _, want := range []string{
		"DOWNLOAD SUMMARY",
		"Total items:     3",
		"Downloaded:      1",
		"Skipped:         1",
		"Failed:          1",
		"FAILED DOWNLOADS:",
		"  ID:    A3",
		"  URL:   http://x/3",
		"  Error: no file returned",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummaryWithoutFailures(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, model.RunStats{Total: 1, Completed: 1})
	if strings.Contains(buf.String(), "FAILED DOWNLOADS") {
		t.Errorf("unexpected failure section:\n%s", buf.String())
	}
}

func TestPrintRetryHint(t *testing.T) {
	tests := []struct {
		name string
		cfg  HintConfig
		want string
	}{
		{
			name: "single worker",
			cfg:  HintConfig{Program: "batch-dl", OutputDir: "out", Workers: 1},
			want: "   batch-dl failed_out.csv out\n",
		},
		{
			name: "workers and spaces",
			cfg:  HintConfig{Program: "batch-dl", OutputDir: "my out", Workers: 4},
			want: "   batch-dl failed_out.csv 'my out'\n   batch-dl failed_out.csv 'my out' --workers 4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintRetryHint(&buf, tt.cfg, "failed_out.csv")
			if buf.String() != tt.want {
				t.Errorf("PrintRetryHint() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestConsoleForwardsEvents(t *testing.T) {
	var sink, out bytes.Buffer
	c := NewConsole(&out, NewLineReporter(&sink), HintConfig{Program: "batch-dl", OutputDir: "out"})

	c.Event(download.ProgressEvent{Message: "Auto-retry #1", Level: download.LevelInfo})
	c.RetryHint("failed_out.csv")

	if sink.String() != "Auto-retry #1\n" {
		t.Errorf("sink = %q", sink.String())
	}
	if !strings.Contains(out.String(), "batch-dl failed_out.csv out") {
		t.Errorf("out = %q", out.String())
	}
}
