package http

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/handiism/batch-downloader/internal/download"
	ioutils "github.com/handiism/batch-downloader/internal/io"
	"go.uber.org/zap"
)

var errNoAsset = errors.New("no downloadable asset found")

// maxHops bounds how many HTML pages are followed for one item.
const maxHops = 1

// Retrieve implements download.Retriever.
//
// The locator is fetched (with retries) and the response becomes exactly
// one file in req.StagingDir: a zip archive is unpacked to its first file,
// an HTML page is searched for an asset link which is then fetched, and
// anything else is saved as is.
func (c *Client) Retrieve(ctx context.Context, req download.Request) (string, error) {
	target := DirectLink(req.Locator)
	if _, err := url.ParseRequestURI(target); err != nil {
		return "", fmt.Errorf("invalid locator %q: %w", req.Locator, err)
	}

	var result string
	err := c.withRetry(ctx, req.Label, func() error {
		var err error
		result, err = c.fetch(ctx, target, req, 0)
		return err
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, target string, req download.Request, hop int) (string, error) {
	resp, err := c.do(ctx, target)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := responseFileName(resp)
	mediaType := contentType(resp)
	c.logger.Debug("response received",
		zap.String("item", req.Label),
		zap.String("url", target),
		zap.String("content_type", mediaType),
		zap.String("file", name))

	switch {
	case mediaType == "application/zip" || strings.EqualFold(filepath.Ext(name), ".zip"):
		archive := filepath.Join(req.StagingDir, ".archive.zip")
		if err := writeBody(resp, archive, c.progressLogger(req)); err != nil {
			return "", err
		}
		return extractFirst(archive, req.StagingDir)

	case mediaType == "text/html":
		if hop >= maxHops {
			return "", errNoAsset
		}
		link, err := FindAssetLink(resp.Body, resp.Request.URL)
		if err != nil {
			return "", err
		}
		if link == "" {
			return "", errNoAsset
		}
		c.logger.Debug("following asset link", zap.String("item", req.Label), zap.String("url", link))
		return c.fetch(ctx, DirectLink(link), req, hop+1)

	default:
		dest := filepath.Join(req.StagingDir, name)
		if err := writeBody(resp, dest, c.progressLogger(req)); err != nil {
			return "", err
		}
		return dest, nil
	}
}

// progressLogger returns a callback logging every 25% of a download at debug
// level, or nil when the item is not verbose.
func (c *Client) progressLogger(req download.Request) func(written, total int64) {
	if !req.Verbose {
		return nil
	}
	next := int64(25)
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		pct := written * 100 / total
		if pct < next {
			return
		}
		next = pct - pct%25 + 25
		c.logger.Debug("download progress",
			zap.String("item", req.Label),
			zap.Int64("written", written),
			zap.Int64("total", total),
			zap.Int64("percent", pct))
	}
}

func contentType(resp *http.Response) string {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// responseFileName picks a file name from Content-Disposition, falling back
// to the last URL path segment. A missing extension is derived from the
// content type.
func responseFileName(resp *http.Response) string {
	var name string
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			name = params["filename"]
		}
	}
	if name == "" && resp.Request != nil {
		name = path.Base(resp.Request.URL.Path)
	}

	name = ioutils.SanitizeFileName(filepath.Base(name))
	if name == "" || name == "." || name == "_" {
		name = "download"
	}
	if filepath.Ext(name) == "" {
		name += extensionFor(contentType(resp))
	}
	return name
}

var preferredExt = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/tiff":      ".tif",
	"image/bmp":       ".bmp",
	"application/pdf": ".pdf",
	"application/zip": ".zip",
}

func extensionFor(mediaType string) string {
	if ext, ok := preferredExt[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
