package download

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Probe looks for an already materialized file for stem in
// outputRoot[/category].
//
// The directory is scanned non-recursively. A regular file named exactly
// stem wins; otherwise the first file in name order whose name without
// extension equals stem is returned. A suffix made only of digits is part
// of the name, not an extension, so "A.1" never satisfies stem "A". A
// missing directory is reported as not found. Probe never creates or
// modifies anything.
func Probe(outputRoot, category, stem string) (string, bool, error) {
	dir := outputRoot
	if category != "" {
		dir = filepath.Join(outputRoot, category)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}

	match := ""
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if name == stem {
			return filepath.Join(dir, name), true, nil
		}
		if match == "" && stemOf(name) == stem {
			match = name
		}
	}
	if match == "" {
		return "", false, nil
	}
	return filepath.Join(dir, match), true, nil
}

func stemOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || strings.Trim(ext[1:], "0123456789") == "" {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
