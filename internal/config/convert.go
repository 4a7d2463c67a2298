package config

import (
	"time"

	"github.com/handiism/batch-downloader/internal/browser"
	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/http"
	"github.com/handiism/batch-downloader/internal/manifest"
)

// ToSchema converts settings to the manifest column schema.
func (s *Settings) ToSchema() manifest.Schema {
	return manifest.Schema{
		IDColumn:       s.IDColumn,
		LocatorColumn:  s.LocatorColumn,
		CategoryColumn: s.CategoryColumn,
		IgnoreCategory: s.IgnoreCategory,
	}
}

// ToClientOptions converts settings to HTTP engine options.
func (s *Settings) ToClientOptions() http.Options {
	return http.Options{
		Timeout:       time.Duration(s.RequestTimeoutSeconds) * time.Second,
		UserAgent:     s.UserAgent,
		MaxRetries:    s.DownloadMaxRetries,
		RetryCooldown: s.DownloadRetryCooldown,
		RetryExponent: s.DownloadRetryExponent,
		ProxyType:     s.ProxyType,
		ProxyAddress:  s.ProxyAddress,
		ProxyPort:     s.ProxyPort,
	}
}

// ToBrowserOptions converts settings to browser engine options.
func (s *Settings) ToBrowserOptions() browser.Options {
	return browser.Options{
		Bin:              s.BrowserBin,
		Headless:         s.BrowserHeadless,
		DownloadSelector: s.BrowserDownloadSelector,
		Timeout:          time.Duration(s.BrowserTimeoutSeconds) * time.Second,
	}
}

// ToPipelineConfig converts settings to the item pipeline configuration for
// the given output root.
func (s *Settings) ToPipelineConfig(outputRoot string) download.PipelineConfig {
	return download.PipelineConfig{
		OutputRoot:   outputRoot,
		VerifyImages: s.VerifyImages,
		MaxImageSize: s.MaxImageSize,
	}
}
