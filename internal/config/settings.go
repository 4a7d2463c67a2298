package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine names accepted by Settings.Engine.
const (
	EngineHTTP    = "http"
	EngineBrowser = "browser"
)

// Progress styles accepted by Settings.Progress.
const (
	ProgressLines = "lines"
	ProgressBar   = "bar"
)

// Settings holds all configuration options.
type Settings struct {
	// Manifest columns
	IDColumn       string `json:"id_column" yaml:"id_column"`
	LocatorColumn  string `json:"locator_column" yaml:"locator_column"`
	CategoryColumn string `json:"category_column" yaml:"category_column"`
	IgnoreCategory bool   `json:"ignore_category" yaml:"ignore_category"`

	// Run settings
	Workers     int    `json:"workers" yaml:"workers"`
	Retry       int    `json:"retry" yaml:"retry"` // 0 disabled, -1 unlimited, N rounds
	Interactive bool   `json:"interactive" yaml:"interactive"`
	Debug       bool   `json:"debug" yaml:"debug"`
	ArtifactDir string `json:"artifact_dir" yaml:"artifact_dir"`
	Progress    string `json:"progress" yaml:"progress"` // lines, bar
	LogFile     string `json:"log_file" yaml:"log_file"`

	// Download settings
	Engine                string  `json:"engine" yaml:"engine"` // http, browser
	DownloadMaxRetries    int     `json:"download_max_retries" yaml:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent" yaml:"download_retry_exponent"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	UserAgent             string  `json:"user_agent" yaml:"user_agent"`

	// Proxy settings
	ProxyType    string `json:"proxy_type" yaml:"proxy_type"` // none, system, manual
	ProxyAddress string `json:"proxy_address" yaml:"proxy_address"`
	ProxyPort    int    `json:"proxy_port" yaml:"proxy_port"`

	// Browser settings
	BrowserBin              string `json:"browser_bin" yaml:"browser_bin"`
	BrowserHeadless         bool   `json:"browser_headless" yaml:"browser_headless"`
	BrowserDownloadSelector string `json:"browser_download_selector" yaml:"browser_download_selector"`
	BrowserTimeoutSeconds   int    `json:"browser_timeout_seconds" yaml:"browser_timeout_seconds"`

	// Image settings
	VerifyImages bool `json:"verify_images" yaml:"verify_images"`
	MaxImageSize int  `json:"max_image_size" yaml:"max_image_size"` // 0 keeps the original
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		IDColumn:       "UPC",
		LocatorColumn:  "IMAGES LINK",
		CategoryColumn: "CATEGORY",

		Workers:     1,
		Retry:       0,
		ArtifactDir: ".",
		Progress:    ProgressLines,

		Engine:                EngineHTTP,
		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.5,
		DownloadRetryExponent: 4.0,
		RequestTimeoutSeconds: 120,
		UserAgent:             "batch-downloader",

		ProxyType: "system",

		BrowserHeadless:       true,
		BrowserTimeoutSeconds: 180,

		VerifyImages: true,
	}
}

// Load reads settings from a JSON or YAML file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Validate rejects values the downloader cannot run with.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.IDColumn) == "" || strings.TrimSpace(s.LocatorColumn) == "" {
		return fmt.Errorf("id_column and locator_column must be set")
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.Retry < -1 {
		return fmt.Errorf("retry must be -1 (unlimited), 0 (disabled), or a positive number, got %d", s.Retry)
	}
	switch s.Engine {
	case EngineHTTP, EngineBrowser:
	default:
		return fmt.Errorf("unknown engine %q (want %s or %s)", s.Engine, EngineHTTP, EngineBrowser)
	}
	switch s.Progress {
	case ProgressLines, ProgressBar:
	default:
		return fmt.Errorf("unknown progress style %q (want %s or %s)", s.Progress, ProgressLines, ProgressBar)
	}
	switch s.ProxyType {
	case "", "none", "system":
	case "manual":
		if s.ProxyAddress == "" {
			return fmt.Errorf("proxy_type manual requires proxy_address")
		}
	default:
		return fmt.Errorf("unknown proxy_type %q", s.ProxyType)
	}
	if s.DownloadMaxRetries < 1 {
		return fmt.Errorf("download_max_retries must be at least 1, got %d", s.DownloadMaxRetries)
	}
	if s.MaxImageSize < 0 {
		return fmt.Errorf("max_image_size must not be negative")
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
