package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"revkit/domain/triangle"
	"revkit/internal"
	apperrors "revkit/internal/errors"
	"revkit/ports"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the processed workbooks.
const (
	TriangleSheet = "Revisions triangle"
	SeriesSheet   = "Revisions series"
	StatsSheet    = "Revision statistics"
)

// BundleWriter persists processed bundles as one workbook per dataset,
// "<name>_PROCESSED.xlsx" under the output directory.
type BundleWriter struct {
	outDir string
	logger *internal.Logger
}

func NewBundleWriter(outDir string, logger *internal.Logger) *BundleWriter {
	return &BundleWriter{outDir: outDir, logger: logger.With("BundleWriter")}
}

var _ ports.BundleWriter = (*BundleWriter)(nil)

// Write renders the triangle, the derived series and their summary statistics
// into a workbook. Missing cells stay empty; the Period index is the first,
// human-readable column of both data sheets.
func (w *BundleWriter) Write(ctx context.Context, bundle *triangle.Bundle, stats []triangle.SeriesStats, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return "", apperrors.WriteFailed(err, "failed to create output directory")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeTriangle(f, bundle.Triangle); err != nil {
		return "", err
	}
	if err := w.writeSeries(f, bundle); err != nil {
		return "", err
	}
	if err := w.writeStats(f, stats); err != nil {
		return "", err
	}

	// Drop the default sheet excelize seeds new files with.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}

	path := filepath.Join(w.outDir, name+"_PROCESSED.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.WriteFailed(err, "failed to save "+path)
	}
	w.logger.Info("Wrote %s (%d periods, %d series)", path, bundle.Triangle.Len(), len(bundle.Series))
	return path, nil
}

func (w *BundleWriter) writeTriangle(f *excelize.File, tri *triangle.Triangle) error {
	if _, err := f.NewSheet(TriangleSheet); err != nil {
		return err
	}

	headers := []interface{}{"Period"}
	for col := 0; col < tri.Width; col++ {
		headers = append(headers, col)
	}
	if err := setRow(f, TriangleSheet, 1, headers); err != nil {
		return err
	}

	for row := 0; row < tri.Len(); row++ {
		cells := []interface{}{tri.Periods[row].String()}
		for col := 0; col < tri.Width; col++ {
			cells = append(cells, optional(tri.Cell(row, col)))
		}
		if err := setRow(f, TriangleSheet, row+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func (w *BundleWriter) writeSeries(f *excelize.File, bundle *triangle.Bundle) error {
	if _, err := f.NewSheet(SeriesSheet); err != nil {
		return err
	}

	headers := []interface{}{"Period"}
	for _, s := range bundle.Series {
		headers = append(headers, s.Name)
	}
	if err := setRow(f, SeriesSheet, 1, headers); err != nil {
		return err
	}

	tri := bundle.Triangle
	for row := 0; row < tri.Len(); row++ {
		cells := []interface{}{tri.Periods[row].String()}
		for _, s := range bundle.Series {
			cells = append(cells, optional(s.Values[row]))
		}
		if err := setRow(f, SeriesSheet, row+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func (w *BundleWriter) writeStats(f *excelize.File, stats []triangle.SeriesStats) error {
	if _, err := f.NewSheet(StatsSheet); err != nil {
		return err
	}

	headers := []interface{}{"Series", "Count", "Mean", "Std Dev", "Min", "Max", "Median", "Bias p-value"}
	if err := setRow(f, StatsSheet, 1, headers); err != nil {
		return err
	}

	for i, st := range stats {
		cells := []interface{}{
			st.Name, st.Count,
			finite(st.Mean), finite(st.StdDev), finite(st.Min),
			finite(st.Max), finite(st.Median), finite(st.BiasP),
		}
		if err := setRow(f, StatsSheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, cells []interface{}) error {
	for i, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func optional(v triangle.Value) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float
}

func finite(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}
