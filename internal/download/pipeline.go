package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ioutils "github.com/handiism/batch-downloader/internal/io"
	"github.com/handiism/batch-downloader/internal/model"
	"go.uber.org/zap"
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// OutputRoot is the root of the output tree.
	OutputRoot string

	// SessionRoot holds per-slot automation sessions. Defaults to os.TempDir().
	SessionRoot string

	// VerifyImages decodes retrieved images and rejects corrupt ones.
	VerifyImages bool

	// MaxImageSize downsizes images whose larger side exceeds it. 0 disables.
	MaxImageSize int
}

// Pipeline processes a single work item end to end.
type Pipeline struct {
	retriever Retriever
	cfg       PipelineConfig
	images    *ioutils.ImageService
	logger    *zap.Logger
}

// NewPipeline creates a Pipeline that fetches through r.
func NewPipeline(r Retriever, cfg PipelineConfig, logger *zap.Logger) *Pipeline {
	if cfg.SessionRoot == "" {
		cfg.SessionRoot = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		retriever: r,
		cfg:       cfg,
		images:    ioutils.NewImageService(),
		logger:    logger,
	}
}

// Process materializes item into the output tree using slot's session.
//
// Process always returns an outcome; no fault raised while handling the
// item escapes it. Staging and session directories are removed on every
// path.
func (p *Pipeline) Process(ctx context.Context, item model.WorkItem, slot int) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("item panicked", zap.String("item", item.ID), zap.Any("panic", r))
			out = failedOutcome(&UnexpectedError{ItemID: item.ID, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	path, skipped, err := p.process(ctx, item, slot)
	switch {
	case err != nil:
		p.logger.Debug("item failed", zap.String("item", item.ID), zap.Error(err))
		return failedOutcome(err)
	case skipped:
		return model.Skipped(path)
	default:
		return model.Completed(path)
	}
}

func (p *Pipeline) process(ctx context.Context, item model.WorkItem, slot int) (string, bool, error) {
	stem := ioutils.SanitizeFileName(item.ID)
	target := item.TargetDir(p.cfg.OutputRoot)
	if err := ioutils.EnsureDir(target); err != nil {
		return "", false, &UnexpectedError{ItemID: item.ID, Err: err}
	}

	existing, found, err := Probe(p.cfg.OutputRoot, item.Category, stem)
	if err != nil {
		return "", false, &UnexpectedError{ItemID: item.ID, Err: err}
	}
	if found {
		p.logger.Debug("item already present", zap.String("item", item.ID), zap.String("path", existing))
		return existing, true, nil
	}

	staging := StagingDir(p.cfg.OutputRoot, slot, stem)
	session := SessionID(p.cfg.SessionRoot, slot)
	defer p.cleanup(item.ID, staging, session)

	if err := ioutils.EnsureDir(staging); err != nil {
		return "", false, &UnexpectedError{ItemID: item.ID, Err: err}
	}

	retrieved, err := p.retriever.Retrieve(ctx, Request{
		Locator:    item.Locator,
		StagingDir: staging,
		SessionID:  session,
		Label:      item.ID,
		Verbose:    verboseFrom(ctx),
	})
	if err != nil {
		return "", false, &RetrievalError{ItemID: item.ID, Err: err}
	}
	if retrieved == "" || !ioutils.FileExists(retrieved) {
		return "", false, &RetrievalError{ItemID: item.ID, Err: errNoFile}
	}

	if ioutils.IsImage(retrieved) {
		if p.cfg.VerifyImages {
			if err := p.images.Verify(retrieved); err != nil {
				return "", false, &RetrievalError{ItemID: item.ID, Err: err}
			}
		}
		if p.cfg.MaxImageSize > 0 {
			resized, err := p.images.ResizeFile(ctx, retrieved, p.cfg.MaxImageSize)
			if err != nil {
				return "", false, &FinalizeError{ItemID: item.ID, Err: err}
			}
			retrieved = resized
		}
	}

	final := filepath.Join(target, stem+filepath.Ext(retrieved))
	if err := ioutils.MoveFile(ctx, retrieved, final); err != nil {
		return "", false, &FinalizeError{ItemID: item.ID, Err: err}
	}
	return final, false, nil
}

func (p *Pipeline) cleanup(itemID string, dirs ...string) {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn("cleanup failed", zap.String("item", itemID), zap.String("dir", dir), zap.Error(err))
		}
	}
}
