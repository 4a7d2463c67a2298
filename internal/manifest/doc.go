// Package manifest reads and writes the tabular work manifests that drive a
// download run.
//
// A manifest is a spreadsheet (.xlsx, .xlsm) or CSV file whose first row is
// a header. Two columns are required, an identifier and a source locator;
// a category column is optional. Every other column is carried through
// untouched so a failed-subset manifest written after a round has exactly
// the same shape as the input.
//
// # Loading
//
//	m, err := manifest.Load("products.xlsx")
//	if err != nil {
//	    var merr *manifest.Error
//	    if errors.As(err, &merr) { ... }
//	}
//
//	items, report, err := m.Items(manifest.Schema{
//	    IDColumn:       "UPC",
//	    LocatorColumn:  "IMAGES LINK",
//	    CategoryColumn: "CATEGORY",
//	})
//
// # Failed-subset manifests
//
// ArtifactPath derives the failed-subset file name from the output
// directory, so repeated rounds against the same output reuse one file:
//
//	path := manifest.ArtifactPath(".", "out/images", ".xlsx") // ./failed_images.xlsx
//
// Prune removes resolved items from such a file, deleting it once empty.
package manifest
