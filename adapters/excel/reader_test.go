package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFiles_CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abmi vintages.csv")
	csv := "Estimate,2020 Q1,2020 Q2\n" +
		"Vintage 1,100.0,\n" +
		"Vintage 2,100.5,99.0\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	set, err := NewWorkbookReader().LoadFiles([]string{path})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	// A CSV contributes one synthetic sheet named after the file stem.
	tables := set.Select([]string{"abmi"}, []string{"vintages"})
	require.Len(t, tables, 1)
	assert.Equal(t, "abmi vintages.csv", tables[0].File)
	assert.Equal(t, "abmi vintages", tables[0].Sheet)

	grid := tables[0].Cells
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Estimate", "2020 Q1", "2020 Q2"}, grid[0])
	assert.Equal(t, []string{"Vintage 1", "100.0", ""}, grid[1])
	assert.Equal(t, []string{"Vintage 2", "100.5", "99.0"}, grid[2])
}

func TestLoadFiles_CSVRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.csv")
	csv := "Estimate,2020 Q1\nVintage 1,100.0,extra\nVintage 2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	set, err := NewWorkbookReader().LoadFiles([]string{path})
	require.NoError(t, err)

	tables := set.Select(nil, nil)
	require.Len(t, tables, 1)
	grid := tables[0].Cells
	require.Len(t, grid, 3)
	assert.Len(t, grid[1], 3)
	assert.Len(t, grid[2], 1)
}

func TestLoadFiles_MissingFile(t *testing.T) {
	_, err := NewWorkbookReader().LoadFiles([]string{"no such file.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file not found")
}
