// Package browser is a download engine that drives a Chrome instance.
//
// Each worker slot gets its own browser profile (the request's SessionID),
// so concurrent items never share cookies or download state. A browser is
// launched per item and always torn down before Retrieve returns.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/handiism/batch-downloader/internal/download"
	httpengine "github.com/handiism/batch-downloader/internal/http"
	ioutils "github.com/handiism/batch-downloader/internal/io"
	"go.uber.org/zap"
)

// Options configures an Engine.
type Options struct {
	// Bin is the Chrome binary. Empty lets the launcher find or fetch one.
	Bin string

	Headless bool

	// DownloadSelector is clicked after navigation when set, for pages that
	// need a button press to start the download.
	DownloadSelector string

	// Timeout bounds one Retrieve call. Defaults to 180 seconds.
	Timeout time.Duration

	Logger *zap.Logger
}

// Engine implements download.Retriever with a real browser.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = 180 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: opts.Logger}
}

// Retrieve opens req.Locator in a browser using req.SessionID as profile
// and waits for the download it triggers to land in req.StagingDir.
func (e *Engine) Retrieve(ctx context.Context, req download.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	if err := os.MkdirAll(req.SessionID, 0o755); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	l := launcher.New().
		Context(ctx).
		UserDataDir(req.SessionID).
		Headless(e.opts.Headless)
	if e.opts.Bin != "" {
		l = l.Bin(e.opts.Bin)
	}
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			e.logger.Debug("browser close failed", zap.String("item", req.Label), zap.Error(err))
		}
	}()

	wait := b.WaitDownload(req.StagingDir)

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}

	target := httpengine.DirectLink(req.Locator)
	e.debug(req, "navigating", zap.String("url", target))
	if err := page.Navigate(target); err != nil && !downloadAborted(err) {
		return "", fmt.Errorf("navigate: %w", err)
	}

	if e.opts.DownloadSelector != "" {
		el, err := page.Element(e.opts.DownloadSelector)
		if err != nil {
			return "", fmt.Errorf("find %q: %w", e.opts.DownloadSelector, err)
		}
		e.debug(req, "clicking download control", zap.String("selector", e.opts.DownloadSelector))
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return "", fmt.Errorf("click %q: %w", e.opts.DownloadSelector, err)
		}
	}

	info := wait()
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("waiting for download: %w", err)
	}
	if info == nil {
		return "", nil
	}
	e.debug(req, "download finished", zap.String("guid", info.GUID), zap.String("file", info.SuggestedFilename))

	return finalizeDownload(req.StagingDir, info.GUID, info.SuggestedFilename)
}

func (e *Engine) debug(req download.Request, msg string, fields ...zap.Field) {
	if !req.Verbose {
		return
	}
	e.logger.Debug(msg, append([]zap.Field{zap.String("item", req.Label)}, fields...)...)
}

// downloadAborted reports whether a navigation error only means the page
// turned into a download.
func downloadAborted(err error) bool {
	var navErr *rod.NavigationError
	return errors.As(err, &navErr) && navErr.Reason == "net::ERR_ABORTED"
}

// finalizeDownload renames the browser's GUID-named file to its suggested
// name. A missing GUID file yields an empty path.
func finalizeDownload(dir, guid, suggested string) (string, error) {
	src := filepath.Join(dir, guid)
	if guid == "" || !ioutils.FileExists(src) {
		return "", nil
	}

	name := ioutils.SanitizeFileName(filepath.Base(suggested))
	if name == "" {
		name = "download"
	}
	dest := filepath.Join(dir, name)
	if err := os.Rename(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}
