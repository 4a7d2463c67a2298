// Package config provides configuration management for batch-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Validation of values that would otherwise fail deep inside a round
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Reads the UPC, IMAGES LINK and CATEGORY columns
//	// One worker, no automatic retry
//	// HTTP engine with exponential backoff
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/batch-dl.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// The file format is chosen by extension: .yaml and .yml are parsed as YAML,
// everything else as JSON. Fields missing from the file keep their defaults.
//
// # Configuration Options
//
// Settings includes options for:
//   - Manifest column names
//   - Worker count and retry budget
//   - Download engine selection and HTTP retry behavior
//   - Proxy configuration
//   - Browser automation
//   - Image verification
//   - Progress style and artifact location
package config
