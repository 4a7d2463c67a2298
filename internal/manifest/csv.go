package manifest

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	ioutils "github.com/handiism/batch-downloader/internal/io"
)

const utf8BOM = "\ufeff"

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(table) > 0 && len(table[0]) > 0 {
		table[0][0] = strings.TrimPrefix(table[0][0], utf8BOM)
	}
	return table, nil
}

func writeCSV(path string, table [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(table); err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(path, buf.Bytes())
}
