package http

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ioutils "github.com/handiism/batch-downloader/internal/io"
)

// extractFirst unpacks the first regular file of the archive (in name order,
// ignoring directories, dot files and macOS metadata) into dir and removes
// the archive.
func extractFirst(archive, dir string) (string, error) {
	defer os.Remove(archive)

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		base := path.Base(f.Name)
		if f.FileInfo().IsDir() || strings.HasPrefix(base, ".") || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return "", errNoAsset
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	f := files[0]
	name := ioutils.SanitizeFileName(path.Base(f.Name))
	if name == "" {
		name = "download"
	}
	dest := filepath.Join(dir, name)

	src, err := f.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dest, nil
}
