package model

import "path/filepath"

// WorkItem is a validated manifest row scheduled for retrieval.
type WorkItem struct {
	// Index is the stable position of the item within its round.
	// Worker slots are derived from it (Index mod workers).
	Index int

	// ID is the trimmed, non-empty identifier used as the output file name.
	// IDs are unique within a round.
	ID string

	// Locator is where the asset is fetched from, typically a shared folder URL.
	Locator string

	// Category is an optional subdirectory of the output root.
	Category string

	// Record is the original manifest row, passed through unmodified.
	Record Record
}

// TargetDir returns the directory the item is stored in under root.
func (w WorkItem) TargetDir(root string) string {
	if w.Category == "" {
		return root
	}
	return filepath.Join(root, w.Category)
}
