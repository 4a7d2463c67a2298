package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImage reports whether path has an extension the ImageService can decode.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ImageService provides image processing operations for retrieved assets.
//
// ImageService is used to:
//   - Verify that a retrieved image actually decodes (an HTML error page
//     saved as .jpg or a truncated transfer fails here)
//   - Resize images to fit maximum dimensions
//
// Example usage:
//
//	svc := NewImageService()
//	if err := svc.Verify(path); err != nil {
//	    // treat as a failed retrieval
//	}
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Verify decodes the image at path and reports whether it is usable.
//
// Files that are not images (by extension) are accepted without being
// read. Images must fully decode; reading only the header would not catch
// truncated transfers.
func (s *ImageService) Verify(path string) error {
	if !IsImage(path) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%s is empty", filepath.Base(path))
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s is not a valid image: %w", filepath.Base(path), err)
	}
	return nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. If the image is already smaller than the
// maximum dimensions, it will still be processed (re-encoded as JPEG).
//
// Returns the resized image as JPEG-encoded bytes.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// Resize to fit within 1000x1000, maintaining aspect ratio
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
//	// A 1500x1000 image becomes 1000x666
//	// A 800x600 image remains 800x600 (but re-encoded)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ResizeFile resizes the image at path to fit within maxSize x maxSize and
// replaces it with a JPEG next to the original.
//
// The returned path has a .jpg extension. Non-image files and a maxSize of
// zero leave the file untouched and return path unchanged.
func (s *ImageService) ResizeFile(ctx context.Context, path string, maxSize int) (string, error) {
	if maxSize <= 0 || !IsImage(path) {
		return path, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	resized, err := s.ResizeImage(ctx, data, maxSize, maxSize)
	if err != nil {
		return "", fmt.Errorf("resize %s: %w", filepath.Base(path), err)
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
	if err := os.WriteFile(out, resized, 0644); err != nil {
		return "", err
	}
	if out != path {
		if err := os.Remove(path); err != nil {
			return "", err
		}
	}
	return out, nil
}
