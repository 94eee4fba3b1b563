package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"revkit/domain/sheetset"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader lifts every sheet of Excel and CSV sources into a SheetSet.
// CSV files contribute a single synthetic sheet named after the file.
type WorkbookReader struct{}

func NewWorkbookReader() *WorkbookReader {
	return &WorkbookReader{}
}

// LoadFiles reads the given files from disk into one SheetSet, keyed by base
// filename in argument order.
func (r *WorkbookReader) LoadFiles(paths []string) (*sheetset.SheetSet, error) {
	set := sheetset.New()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("source file not found: %s", path)
		}

		name := filepath.Base(path)
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			if err := r.readCSVInto(set, name, path); err != nil {
				return nil, err
			}
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := r.ReadWorkbookBytes(set, name, data); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// ReadWorkbookBytes parses an in-memory .xlsx workbook and adds every sheet
// to the set under filename. Used both by LoadFiles and by the remote fetch
// adapter, which unzips releases without touching disk.
func (r *WorkbookReader) ReadWorkbookBytes(set *sheetset.SheetSet, filename string, data []byte) error {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %s of %s: %w", sheet, filename, err)
		}
		set.Add(filename, sheet, rows)
	}
	return nil
}

func (r *WorkbookReader) readCSVInto(set *sheetset.SheetSet, name, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}
	set.Add(name, strings.TrimSuffix(name, filepath.Ext(name)), rows)
	return nil
}
