package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_EnsureDirectory(t *testing.T) {
	m := NewManager(slog.Default())
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, m.EnsureDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op.
	assert.NoError(t, m.EnsureDirectory(dir))
}

func TestManager_ClearDirectory(t *testing.T) {
	m := NewManager(nil)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "one.csv"))
	writeFile(t, filepath.Join(dir, "two.csv"))
	writeFile(t, filepath.Join(dir, "sub", "keep.csv"))

	require.NoError(t, m.ClearDirectory(dir))

	names, err := m.ListFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Files in subdirectories survive.
	assert.FileExists(t, filepath.Join(dir, "sub", "keep.csv"))
}

func TestManager_ClearDirectory_Missing(t *testing.T) {
	m := NewManager(nil)
	assert.NoError(t, m.ClearDirectory(filepath.Join(t.TempDir(), "absent")))
}

func TestManager_RemoveVersions(t *testing.T) {
	m := NewManager(nil)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "sale_data_2023_20240101_120000.csv"))
	writeFile(t, filepath.Join(dir, "sale_data_2023_20240201_120000.csv"))
	writeFile(t, filepath.Join(dir, "rent_data_2023_20240101_120000.csv"))

	require.NoError(t, m.RemoveVersions(dir, "sale_data_2023", ".csv"))

	names, err := m.ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"rent_data_2023_20240101_120000.csv"}, names)
}
