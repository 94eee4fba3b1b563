package excel

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"revkit/domain/period"
	"revkit/domain/triangle"
	"revkit/internal"
	apperrors "revkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() (*triangle.Bundle, []triangle.SeriesStats) {
	p := period.Period{Year: 2020, Ord: 1, Kind: period.Quarterly}
	tri := &triangle.Triangle{
		Periods: []period.Period{p, p.Next()},
		Cells: [][]triangle.Value{
			{triangle.Some(100.0), triangle.Some(100.5), triangle.Some(101.25)},
			{triangle.Some(99.0), triangle.Some(98.75), triangle.Missing},
		},
		Width:  3,
		Source: "test",
	}
	b := triangle.Derive(tri, []int{0, 1, 2})
	return b, triangle.Summarize(b)
}

func TestWrite_RoundTripThroughWorkbook(t *testing.T) {
	bundle, stats := testBundle()
	w := NewBundleWriter(t.TempDir(), internal.NewLogger(internal.LogLevelError))

	path, err := w.Write(context.Background(), bundle, stats, "abmi")
	require.NoError(t, err)
	assert.Contains(t, path, "abmi_PROCESSED.xlsx")

	set, err := NewWorkbookReader().LoadFiles([]string{path})
	require.NoError(t, err)

	tables := set.Select(nil, []string{"revisions triangle"})
	require.Len(t, tables, 1)
	grid := tables[0].Cells

	// Header row: Period then dense estimate indices.
	require.GreaterOrEqual(t, len(grid), 3)
	assert.Equal(t, "Period", grid[0][0])
	assert.Equal(t, "0", grid[0][1])

	// Period stays a visible human-readable column.
	assert.Equal(t, "2020Q1", grid[1][0])
	assert.Equal(t, "2020Q2", grid[2][0])

	// Values survive the round trip; the missing cell stays blank.
	for col, want := range []float64{100.0, 100.5, 101.25} {
		got, err := strconv.ParseFloat(grid[1][col+1], 64)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9)
	}
	if len(grid[2]) > 3 {
		assert.Equal(t, "", grid[2][3])
	}
}

func TestWrite_SeriesSheet(t *testing.T) {
	bundle, stats := testBundle()
	w := NewBundleWriter(t.TempDir(), internal.NewLogger(internal.LogLevelError))

	path, err := w.Write(context.Background(), bundle, stats, "abmi")
	require.NoError(t, err)

	set, err := NewWorkbookReader().LoadFiles([]string{path})
	require.NoError(t, err)

	tables := set.Select(nil, []string{"revisions series"})
	require.Len(t, tables, 1)
	grid := tables[0].Cells

	assert.Equal(t, []string{"Period", "First Estimate", "1st Period", "2nd Period"}, grid[0])

	// 2020Q1: first = 100.0, 1st = 0.5, 2nd = 1.25
	got, err := strconv.ParseFloat(grid[1][2], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)
	got, err = strconv.ParseFloat(grid[1][3], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, got, 1e-9)

	// 2020Q2 has two estimates: 2nd Period stays blank.
	if len(grid[2]) > 3 {
		assert.Equal(t, "", grid[2][3])
	}
}

func TestWrite_StatsSheet(t *testing.T) {
	bundle, stats := testBundle()
	w := NewBundleWriter(t.TempDir(), internal.NewLogger(internal.LogLevelError))

	path, err := w.Write(context.Background(), bundle, stats, "abmi")
	require.NoError(t, err)

	set, err := NewWorkbookReader().LoadFiles([]string{path})
	require.NoError(t, err)

	tables := set.Select(nil, []string{"revision statistics"})
	require.Len(t, tables, 1)
	grid := tables[0].Cells

	require.GreaterOrEqual(t, len(grid), 4)
	assert.Equal(t, "Series", grid[0][0])
	assert.Equal(t, "First Estimate", grid[1][0])
	assert.Equal(t, "1st Period", grid[2][0])
}

func TestWrite_UnwritableOutputDir(t *testing.T) {
	bundle, stats := testBundle()

	// A regular file where the output directory should go makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewBundleWriter(blocker, internal.NewLogger(internal.LogLevelError))
	_, err := w.Write(context.Background(), bundle, stats, "abmi")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeWriteFailed, apperrors.GetCode(err))
}

func TestWrite_CancelledContext(t *testing.T) {
	bundle, stats := testBundle()
	w := NewBundleWriter(t.TempDir(), internal.NewLogger(internal.LogLevelError))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Write(ctx, bundle, stats, "abmi")
	assert.Error(t, err)
}
