package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/batch-downloader/internal/model"
	"github.com/stretchr/testify/require"
)

// fileRetriever writes "asset.dat" into the staging directory unless the
// locator says otherwise.
func fileRetriever(t *testing.T, seen *[]Request) Retriever {
	t.Helper()
	return RetrieverFunc(func(ctx context.Context, req Request) (string, error) {
		if seen != nil {
			*seen = append(*seen, req)
		}
		switch req.Locator {
		case "empty":
			return "", nil
		case "missing":
			return filepath.Join(req.StagingDir, "ghost.dat"), nil
		case "error":
			return "", errors.New("engine exploded")
		case "panic":
			panic("engine bug")
		}
		require.NoError(t, os.MkdirAll(req.SessionID, 0o755))
		path := filepath.Join(req.StagingDir, "asset.dat")
		return path, os.WriteFile(path, []byte(req.Locator), 0o644)
	})
}

func item(index int, id, locator, category string) model.WorkItem {
	return model.WorkItem{Index: index, ID: id, Locator: locator, Category: category}
}

func newTestPipeline(t *testing.T, r Retriever) (*Pipeline, string, string) {
	t.Helper()
	out := t.TempDir()
	sessions := t.TempDir()
	return NewPipeline(r, PipelineConfig{OutputRoot: out, SessionRoot: sessions}, nil), out, sessions
}

func TestPipelineCompletes(t *testing.T) {
	var seen []Request
	p, out, sessions := newTestPipeline(t, fileRetriever(t, &seen))

	got := p.Process(context.Background(), item(0, "A2", "u2", "Covers"), 2)

	want := filepath.Join(out, "Covers", "A2.dat")
	require.Equal(t, model.Completed(want), got)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	require.Equal(t, "u2", string(data))

	require.Len(t, seen, 1)
	require.Equal(t, StagingDir(out, 2, "A2"), seen[0].StagingDir)
	require.Equal(t, SessionID(sessions, 2), seen[0].SessionID)

	_, err = os.Stat(seen[0].StagingDir)
	require.True(t, os.IsNotExist(err), "staging dir left behind")
	_, err = os.Stat(seen[0].SessionID)
	require.True(t, os.IsNotExist(err), "session dir left behind")
}

func TestPipelineSkipsExisting(t *testing.T) {
	var seen []Request
	p, out, _ := newTestPipeline(t, fileRetriever(t, &seen))
	existing := filepath.Join(out, "A1.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	got := p.Process(context.Background(), item(0, "A1", "u1", ""), 0)

	require.Equal(t, model.Skipped(existing), got)
	require.Empty(t, seen, "engine must not be invoked for present items")
}

func TestPipelineIdempotent(t *testing.T) {
	var seen []Request
	p, out, _ := newTestPipeline(t, fileRetriever(t, &seen))
	it := item(0, "A2", "u2", "")

	first := p.Process(context.Background(), it, 0)
	second := p.Process(context.Background(), it, 0)

	require.Equal(t, model.OutcomeCompleted, first.Kind)
	require.Equal(t, model.Skipped(filepath.Join(out, "A2.dat")), second)
	require.Len(t, seen, 1)
}

func TestPipelineFailures(t *testing.T) {
	tests := []struct {
		locator string
		kind    model.ErrorKind
		message string
	}{
		{"empty", model.ErrRetrieval, "no file returned"},
		{"missing", model.ErrRetrieval, "no file returned"},
		{"error", model.ErrRetrieval, "engine exploded"},
		{"panic", model.ErrUnexpected, "panic: engine bug"},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			var seen []Request
			p, out, _ := newTestPipeline(t, fileRetriever(t, &seen))

			got := p.Process(context.Background(), item(0, "A3", tt.locator, ""), 1)

			require.Equal(t, model.OutcomeFailed, got.Kind)
			require.Equal(t, tt.kind, got.ErrKind)
			require.Contains(t, got.Message, tt.message)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			for _, e := range entries {
				require.False(t, strings.HasPrefix(e.Name(), ".tmp_"), "staging dir %s left behind", e.Name())
			}
		})
	}
}

func TestPipelineRejectsCorruptImage(t *testing.T) {
	r := RetrieverFunc(func(ctx context.Context, req Request) (string, error) {
		path := filepath.Join(req.StagingDir, "cover.png")
		return path, os.WriteFile(path, []byte("not a png"), 0o644)
	})
	out := t.TempDir()
	p := NewPipeline(r, PipelineConfig{OutputRoot: out, SessionRoot: t.TempDir(), VerifyImages: true}, nil)

	got := p.Process(context.Background(), item(0, "A4", "u4", ""), 0)

	require.Equal(t, model.OutcomeFailed, got.Kind)
	require.Equal(t, model.ErrRetrieval, got.ErrKind)
	_, found, err := Probe(out, "", "A4")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPipelineSanitizesStem(t *testing.T) {
	p, out, _ := newTestPipeline(t, fileRetriever(t, nil))

	got := p.Process(context.Background(), item(0, "A/5", "u5", ""), 0)

	require.Equal(t, model.OutcomeCompleted, got.Kind)
	require.Equal(t, out, filepath.Dir(got.Path))
}
