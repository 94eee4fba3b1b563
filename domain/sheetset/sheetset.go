package sheetset

import "strings"

// RawTable is one sheet lifted out of a source workbook: an untyped grid with
// no guaranteed header or index structure. It is consumed once by the
// normalizer and then discarded.
type RawTable struct {
	File  string
	Sheet string
	Cells [][]string
}

// SheetSet holds the sheets of one downloaded release, keyed by source
// filename and sheet name. Iteration respects discovery order so that batch
// output lines up with the configured filename lists.
type SheetSet struct {
	fileOrder []string
	files     map[string]*fileSheets
}

type fileSheets struct {
	sheetOrder []string
	sheets     map[string][][]string
}

func New() *SheetSet {
	return &SheetSet{files: make(map[string]*fileSheets)}
}

// Add registers a sheet grid under the given filename and sheet name.
func (s *SheetSet) Add(file, sheet string, cells [][]string) {
	fs, ok := s.files[file]
	if !ok {
		fs = &fileSheets{sheets: make(map[string][][]string)}
		s.files[file] = fs
		s.fileOrder = append(s.fileOrder, file)
	}
	if _, ok := fs.sheets[sheet]; !ok {
		fs.sheetOrder = append(fs.sheetOrder, sheet)
	}
	fs.sheets[sheet] = cells
}

// Files returns the source filenames in discovery order.
func (s *SheetSet) Files() []string {
	out := make([]string, len(s.fileOrder))
	copy(out, s.fileOrder)
	return out
}

// Len returns the total number of sheets held.
func (s *SheetSet) Len() int {
	n := 0
	for _, fs := range s.files {
		n += len(fs.sheetOrder)
	}
	return n
}

// Select returns the tables whose filename matches any of fileFilters and
// whose sheet name matches any of sheetFilters, in discovery order. Matching
// is case-insensitive substring; an empty filter list matches everything.
// Zero matches yields an empty result, not an error.
func (s *SheetSet) Select(fileFilters, sheetFilters []string) []RawTable {
	var out []RawTable
	for _, file := range s.fileOrder {
		if !matches(file, fileFilters) {
			continue
		}
		fs := s.files[file]
		for _, sheet := range fs.sheetOrder {
			if !matches(sheet, sheetFilters) {
				continue
			}
			out = append(out, RawTable{File: file, Sheet: sheet, Cells: fs.sheets[sheet]})
		}
	}
	return out
}

func matches(name string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, f := range filters {
		if strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}
