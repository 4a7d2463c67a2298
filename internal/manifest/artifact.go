package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/batch-downloader/internal/model"
)

// FailedPrefix marks failed-subset manifests. A round whose input file
// name starts with it is a retry round.
const FailedPrefix = "failed_"

// ArtifactPath returns where the failed-subset manifest for outputDir
// lives: dir/failed_<leaf of outputDir><ext>.
//
// Workbooks are always written without macros, so .xlsm becomes .xlsx.
func ArtifactPath(dir, outputDir, ext string) string {
	if strings.EqualFold(ext, ".xlsm") {
		ext = ".xlsx"
	}
	leaf := filepath.Base(filepath.Clean(outputDir))
	if leaf == "." || leaf == string(filepath.Separator) {
		if abs, err := filepath.Abs(outputDir); err == nil {
			leaf = filepath.Base(abs)
		}
	}
	if leaf == "" || leaf == string(filepath.Separator) || leaf == "." {
		leaf = "output"
	}
	return filepath.Join(dir, FailedPrefix+leaf+ext)
}

// IsFailedSubset reports whether path names a failed-subset manifest.
func IsFailedSubset(path string) bool {
	return strings.HasPrefix(filepath.Base(path), FailedPrefix)
}

// PruneResult reports what Prune changed.
type PruneResult struct {
	Removed   int
	Remaining int
	Deleted   bool
}

// Prune drops the rows whose id is in resolved from the manifest at path.
//
// The remaining rows are written back unchanged in their original order.
// If no rows remain the file is deleted. A missing file is a no-op.
func Prune(path string, s Schema, resolved []string) (PruneResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return PruneResult{}, nil
	}

	m, err := Load(path)
	if err != nil {
		return PruneResult{}, err
	}
	idCol, ok := m.column(s.IDColumn)
	if !ok {
		return PruneResult{}, newError("validate", path, ErrMissingColumns)
	}

	done := make(map[string]bool, len(resolved))
	for _, id := range resolved {
		done[strings.TrimSpace(id)] = true
	}

	var keep []model.Record
	for _, row := range m.Rows {
		if done[strings.TrimSpace(row.Value(idCol))] {
			continue
		}
		keep = append(keep, row)
	}

	res := PruneResult{Removed: len(m.Rows) - len(keep), Remaining: len(keep)}
	if len(keep) == 0 {
		if err := Remove(path); err != nil {
			return res, err
		}
		res.Deleted = true
		return res, nil
	}
	if res.Removed == 0 {
		return res, nil
	}
	return res, Write(path, m.Header, keep)
}
