package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/handiism/batch-downloader/internal/model"
)

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		outputDir string
		want      string
	}{
		{"out/images", filepath.Join("work", "failed_images.xlsx")},
		{"out/images/", filepath.Join("work", "failed_images.xlsx")},
		{"images", filepath.Join("work", "failed_images.xlsx")},
	}
	for _, tt := range tests {
		t.Run(tt.outputDir, func(t *testing.T) {
			require.Equal(t, tt.want, ArtifactPath("work", tt.outputDir, ".xlsx"))
		})
	}

	require.Equal(t, filepath.Join("work", "failed_images.xlsx"), ArtifactPath("work", "out/images", ".xlsm"))
	require.Equal(t, filepath.Join("work", "failed_images.xlsx"), ArtifactPath("work", "out/images", ".XLSM"))

	// "." resolves to the working directory's name
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("work", "failed_"+filepath.Base(wd)+".csv"), ArtifactPath("work", ".", ".csv"))
}

func TestIsFailedSubset(t *testing.T) {
	require.True(t, IsFailedSubset("/tmp/failed_images.xlsx"))
	require.False(t, IsFailedSubset("/tmp/failed/products.xlsx"))
	require.False(t, IsFailedSubset("products.xlsx"))
}

func failedFile(t *testing.T, ids ...string) string {
	t.Helper()
	header := []string{"UPC", "IMAGES LINK", "NOTE"}
	var rows []model.Record
	for _, id := range ids {
		rows = append(rows, model.NewRecord(header, []string{id, "u-" + id, "keep " + id}))
	}
	path := filepath.Join(t.TempDir(), "failed_out.csv")
	require.NoError(t, Write(path, header, rows))
	return path
}

func TestPrune_Partial(t *testing.T) {
	path := failedFile(t, "A1", "A2", "A3")

	res, err := Prune(path, defaultSchema, []string{"A1", "A3", "ZZ"})
	require.NoError(t, err)
	require.Equal(t, PruneResult{Removed: 2, Remaining: 1}, res)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)
	require.Equal(t, []string{"A2", "u-A2", "keep A2"}, m.Rows[0].Values())
}

func TestPrune_AllResolvedDeletes(t *testing.T) {
	path := failedFile(t, "A1", "A2")

	res, err := Prune(path, defaultSchema, []string{"A2", "A1"})
	require.NoError(t, err)
	require.True(t, res.Deleted)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestPrune_NothingResolved(t *testing.T) {
	path := failedFile(t, "A1")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	res, err := Prune(path, defaultSchema, nil)
	require.NoError(t, err)
	require.Equal(t, PruneResult{Remaining: 1}, res)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestPrune_MissingFile(t *testing.T) {
	res, err := Prune(filepath.Join(t.TempDir(), "failed_x.csv"), defaultSchema, []string{"A1"})
	require.NoError(t, err)
	require.Equal(t, PruneResult{}, res)
}
