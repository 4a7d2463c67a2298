package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/batch-downloader/internal/model"
)

// Manifest is a loaded tabular manifest.
type Manifest struct {
	Path   string
	Header []string
	Rows   []model.Record
}

type format int

const (
	formatUnknown format = iota
	formatCSV
	formatXLSX
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return formatCSV
	case ".xlsx", ".xlsm":
		return formatXLSX
	default:
		return formatUnknown
	}
}

// Supported reports whether path has a manifest extension this package
// can read and write.
func Supported(path string) bool {
	return formatOf(path) != formatUnknown
}

// Load reads the manifest at path.
//
// The first non-empty row is the header. Empty header cells are named
// "Unnamed: N" and repeated names get a ".N" suffix so every column
// survives a round trip. Rows are padded to the header width; cells
// beyond it are dropped. Fully empty rows are skipped.
func Load(path string) (*Manifest, error) {
	var (
		table [][]string
		err   error
	)
	switch formatOf(path) {
	case formatCSV:
		table, err = readCSV(path)
	case formatXLSX:
		table, err = readXLSX(path)
	default:
		return nil, newError("load", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, newError("load", path, err)
	}

	table = dropEmptyRows(table)
	if len(table) == 0 {
		return nil, newError("load", path, ErrNoHeader)
	}

	header := normalizeHeader(table[0])
	m := &Manifest{Path: path, Header: header}
	for _, cells := range table[1:] {
		m.Rows = append(m.Rows, model.NewRecord(header, cells))
	}
	return m, nil
}

// Write stores rows at path using header as the column order.
//
// When header is nil it is derived from the rows' keys in first-seen
// order. The file is replaced atomically.
func Write(path string, header []string, rows []model.Record) error {
	if header == nil {
		header = headerOf(rows)
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, header)
	for _, r := range rows {
		line := make([]string, len(header))
		for i, col := range header {
			line[i] = r.Value(col)
		}
		table = append(table, line)
	}

	var err error
	switch formatOf(path) {
	case formatCSV:
		err = writeCSV(path, table)
	case formatXLSX:
		err = writeXLSX(path, table)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return newError("write", path, err)
	}
	return nil
}

// Remove deletes the manifest at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return newError("remove", path, err)
	}
	return nil
}

func headerOf(rows []model.Record) []string {
	seen := make(map[string]bool)
	var header []string
	for _, r := range rows {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	return header
}

func normalizeHeader(cells []string) []string {
	header := make([]string, len(cells))
	seen := make(map[string]bool, len(cells))
	for i, c := range cells {
		name := c
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		// Suffixed names can collide with later literal cells; every final
		// name is unique so no cell is merged into another.
		base := name
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		seen[name] = true
		header[i] = name
	}
	return header
}

func dropEmptyRows(table [][]string) [][]string {
	out := table[:0]
	for _, row := range table {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
