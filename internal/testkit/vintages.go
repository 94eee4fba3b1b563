package testkit

import "fmt"

// Fixture grids shaped like the published ONS revisions triangle workbooks,
// boilerplate rows included, so normalization tests exercise the real layout
// rather than pre-cleaned data.

// QuarterlyVintagesGrid builds a raw quarterly sheet. labels are the period
// column headers ("2021 Q1", ...); estimates[i] is release row i across those
// periods, with "" standing for a blank placeholder cell.
func QuarterlyVintagesGrid(labels []string, estimates [][]string) [][]string {
	grid := [][]string{
		{"Revisions triangle for UK GDP"},
		{"Source: quarterly national accounts"},
		append([]string{"Estimate"}, labels...),
		{"Release dates refer to first publication"},
		{""},
		{"Units: percentage change on previous quarter"},
	}
	for i, est := range estimates {
		grid = append(grid, append([]string{fmt.Sprintf("Vintage %d", i+1)}, est...))
	}
	// Trailing index row the publisher appends below the data area.
	footer := []string{"Index"}
	for range labels {
		footer = append(footer, "x")
	}
	return append(grid, footer)
}

// MonthlyVintagesGrid builds a raw monthly sheet: two title rows, the period
// header, one note row, the release rows, then a trailing metadata release
// that normalization must drop after transposing.
func MonthlyVintagesGrid(labels []string, estimates [][]string) [][]string {
	grid := [][]string{
		{"Revisions triangle for monthly GDP"},
		{"Month on month growth"},
		append([]string{"Estimate"}, labels...),
		{"Shaded cells denote open periods"},
	}
	for i, est := range estimates {
		grid = append(grid, append([]string{fmt.Sprintf("M%d", i+1)}, est...))
	}
	meta := []string{"Latest period flag"}
	for range labels {
		meta = append(meta, "1")
	}
	return append(grid, meta)
}
