package download

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/handiism/batch-downloader/internal/model"
)

// Request is one call into a download engine.
type Request struct {
	// Locator is the source to fetch, usually a URL.
	Locator string

	// StagingDir is an empty directory owned by this call. The engine
	// writes the retrieved file here.
	StagingDir string

	// SessionID identifies the automation session (for example a browser
	// profile directory). It is keyed by worker slot, never by item.
	SessionID string

	// Label names the item in engine logs.
	Label string

	// Verbose asks the engine for diagnostic output.
	Verbose bool
}

// Retriever is a download engine.
//
// Retrieve returns the path of exactly one retrieved file inside
// StagingDir, or an empty path when nothing could be retrieved.
type Retriever interface {
	Retrieve(ctx context.Context, req Request) (string, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, req Request) (string, error)

// Retrieve calls f.
func (f RetrieverFunc) Retrieve(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Reporter receives round progress.
type Reporter interface {
	Begin(total int)
	Report(itemID string, outcome model.Outcome)
	End()
}

type nopReporter struct{}

func (nopReporter) Begin(int)                    {}
func (nopReporter) Report(string, model.Outcome) {}
func (nopReporter) End()                         {}

// SessionID returns the automation session identifier for slot under root.
func SessionID(root string, slot int) string {
	return filepath.Join(root, fmt.Sprintf("batch-dl-session-%d", slot))
}

// StagingDir returns the staging directory for one (slot, item) pair.
func StagingDir(outputRoot string, slot int, stem string) string {
	return filepath.Join(outputRoot, fmt.Sprintf(".tmp_%d_%s", slot, stem))
}

type verboseKey struct{}

func withVerbose(ctx context.Context, verbose bool) context.Context {
	return context.WithValue(ctx, verboseKey{}, verbose)
}

func verboseFrom(ctx context.Context) bool {
	v, _ := ctx.Value(verboseKey{}).(bool)
	return v
}
