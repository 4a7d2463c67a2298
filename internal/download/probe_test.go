package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Covers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "A1.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Covers", "B1.png"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "C1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "D.1"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "E2"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "E2.jpg"), []byte("x"), 0o644))

	tests := []struct {
		name     string
		category string
		stem     string
		want     string
		found    bool
	}{
		{"root hit", "", "A1", filepath.Join(root, "A1.jpg"), true},
		{"category hit", "Covers", "B1", filepath.Join(root, "Covers", "B1.png"), true},
		{"wrong category", "", "B1", "", false},
		{"prefix only", "", "A", "", false},
		{"directory ignored", "", "C1", "", false},
		{"missing category dir", "Nope", "A1", "", false},
		{"dotted id without extension", "", "D.1", filepath.Join(root, "D.1"), true},
		{"numeric suffix is not an extension", "", "D", "", false},
		{"exact name preferred", "", "E2", filepath.Join(root, "E2"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := Probe(root, tt.category, tt.stem)
			require.NoError(t, err)
			require.Equal(t, tt.found, found)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProbeDoesNotCreate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	_, found, err := Probe(root, "Cat", "A1")
	require.NoError(t, err)
	require.False(t, found)
	_, err = os.Stat(root)
	require.True(t, os.IsNotExist(err))
}
