// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Moving retrieved files into the output tree
//   - Atomic file writes for manifests
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Image verification and resizing
//
// # File Operations
//
//	// Move a staged file into place (falls back to copy across devices)
//	err := ioutils.MoveFile(ctx, "/out/.tmp_0_A1/photo.png", "/out/A1.png")
//
//	// Write data atomically
//	err := ioutils.WriteFileAtomic("/work/failed_out.csv", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Shoes: Men/Women") // Returns "Shoes_ Men_Women"
//
// # Image Processing
//
// The ImageService checks and normalizes retrieved images:
//
//	svc := ioutils.NewImageService()
//
//	// Reject truncated or mislabelled downloads
//	err := svc.Verify(path)
//
//	// Resize image to fit within 1000x1000
//	newPath, err := svc.ResizeFile(ctx, path, 1000)
package ioutils
