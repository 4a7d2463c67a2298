package manifest

import (
	"fmt"
	"strings"

	ioutils "github.com/handiism/batch-downloader/internal/io"
	"github.com/handiism/batch-downloader/internal/model"
)

// Schema names the columns a manifest is read through.
type Schema struct {
	IDColumn       string
	LocatorColumn  string
	CategoryColumn string

	// IgnoreCategory stores every file directly under the output root
	// even when the category column is present.
	IgnoreCategory bool
}

// Report describes what Items did with the manifest rows.
type Report struct {
	Rows       int // data rows in the manifest
	Dropped    int // rows missing an id or locator
	Duplicates int // rows whose id repeats an earlier row

	HasCategory     bool // category column present and used
	CategoryIgnored bool // category column present but ignored
}

// Items validates the manifest against s and builds the work items.
//
// Missing required columns yield an *Error wrapping ErrMissingColumns.
// Values are trimmed; rows with a blank id or locator are dropped. Item
// ids are unique within the result: a row whose id maps to the same file
// name as an earlier row is dropped as a duplicate. Each item keeps a
// copy of its original row.
func (m *Manifest) Items(s Schema) ([]model.WorkItem, Report, error) {
	rep := Report{Rows: len(m.Rows)}

	idCol, idOK := m.column(s.IDColumn)
	locCol, locOK := m.column(s.LocatorColumn)
	if !idOK || !locOK {
		var missing []string
		if !idOK {
			missing = append(missing, s.IDColumn)
		}
		if !locOK {
			missing = append(missing, s.LocatorColumn)
		}
		err := fmt.Errorf("%w: %s (found columns: %s)", ErrMissingColumns,
			strings.Join(missing, ", "), strings.Join(m.Header, ", "))
		return nil, rep, newError("validate", m.Path, err)
	}

	catCol, catOK := "", false
	if s.CategoryColumn != "" {
		catCol, catOK = m.column(s.CategoryColumn)
	}
	rep.HasCategory = catOK && !s.IgnoreCategory
	rep.CategoryIgnored = catOK && s.IgnoreCategory

	seen := make(map[string]bool)
	items := make([]model.WorkItem, 0, len(m.Rows))
	for _, row := range m.Rows {
		id := strings.TrimSpace(row.Value(idCol))
		locator := strings.TrimSpace(row.Value(locCol))
		if id == "" || locator == "" || ioutils.SanitizeFileName(id) == "" {
			rep.Dropped++
			continue
		}

		stem := ioutils.SanitizeFileName(id)
		if seen[stem] {
			rep.Duplicates++
			continue
		}
		seen[stem] = true

		var category string
		if rep.HasCategory {
			category = ioutils.SanitizeFileName(row.Value(catCol))
		}

		items = append(items, model.WorkItem{
			Index:    len(items),
			ID:       id,
			Locator:  locator,
			Category: category,
			Record:   row.Clone(),
		})
	}

	return items, rep, nil
}

// column resolves name against the header, ignoring case and surrounding
// whitespace, and returns the header's own spelling.
func (m *Manifest) column(name string) (string, bool) {
	want := strings.TrimSpace(name)
	if want == "" {
		return "", false
	}
	for _, h := range m.Header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return h, true
		}
	}
	return "", false
}
