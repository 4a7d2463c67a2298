package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/handiism/batch-downloader/internal/model"
)

var defaultSchema = Schema{IDColumn: "UPC", LocatorColumn: "IMAGES LINK", CategoryColumn: "CATEGORY"}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "products.csv",
		"\ufeffUPC,IMAGES LINK,NOTES\nA1,u1,first\n,,\nA2,u2\n")

	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"UPC", "IMAGES LINK", "NOTES"}, m.Header)
	require.Len(t, m.Rows, 2)
	require.Equal(t, "first", m.Rows[0].Value("NOTES"))
	require.Equal(t, "", m.Rows[1].Value("NOTES"))
}

func TestLoad_NormalizesHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "h.csv", "UPC,,UPC\n1,2,3\n")

	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"UPC", "Unnamed: 1", "UPC.1"}, m.Header)
	require.Equal(t, "3", m.Rows[0].Value("UPC.1"))

	t.Run("suffix collides with a later cell", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "notes.csv", "UPC,Note,Note,Note.1\nA1,x,y,z\n")

		m, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, []string{"UPC", "Note", "Note.1", "Note.1.1"}, m.Header)
		require.Equal(t, []string{"A1", "x", "y", "z"}, m.Rows[0].Values())

		out := filepath.Join(t.TempDir(), "failed_out.csv")
		require.NoError(t, Write(out, m.Header, m.Rows))
		again, err := Load(out)
		require.NoError(t, err)
		require.Equal(t, m.Header, again.Header)
		if diff := cmp.Diff(m.Rows[0].Values(), again.Rows[0].Values()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unsupported", writeFile(t, dir, "products.txt", "UPC\n"), ErrUnsupportedFormat},
		{"empty", writeFile(t, dir, "empty.csv", "\n\n"), ErrNoHeader},
		{"missing file", filepath.Join(dir, "nope.csv"), os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)

			var merr *Error
			require.True(t, errors.As(err, &merr), "want *manifest.Error, got %T", err)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_CorruptWorkbook(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.xlsx", "not a zip")
	_, err := Load(path)

	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, "load", merr.Op)
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	header := []string{"UPC", "IMAGES LINK", "CATEGORY", "PRICE"}
	rows := []model.Record{
		model.NewRecord(header, []string{"0001", "https://x/1", "shoes", "9.99"}),
		model.NewRecord(header, []string{"0002", "https://x/2", "", "=1+1"}),
	}

	for _, ext := range []string{".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "failed_out"+ext)
			require.NoError(t, Write(path, nil, rows))

			m, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, header, m.Header)
			require.Len(t, m.Rows, len(rows))
			for i := range rows {
				if diff := cmp.Diff(rows[i].Values(), m.Rows[i].Values()); diff != "" {
					t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
				}
			}
		})
	}
}

func TestWrite_Unsupported(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "x.json"), []string{"UPC"}, nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRemove_Missing(t *testing.T) {
	require.NoError(t, Remove(filepath.Join(t.TempDir(), "nope.csv")))
}
