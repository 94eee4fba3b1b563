package triangle

import (
	"fmt"
	"sort"
	"strings"

	"revkit/domain/core"
	"revkit/domain/period"
	"revkit/domain/sheetset"
)

// Layout names the boilerplate structure of one publisher's vintages sheet.
// The source workbooks interleave title rows, release-note rows and a trailing
// index row with the data area; which rows and columns to discard is publisher
// layout, so it lives in per-indicator configuration instead of positional
// guesses inside the reshaping logic.
type Layout struct {
	DropLeadingRows []int // raw grid row indices discarded before reshaping
	DropFinalRow    bool  // discard the last raw row (quarterly trailing index row)
	DropFinalColumn bool  // discard the trailing release column after transposing (monthly metadata)
	PeriodKind      period.Kind
}

// QuarterlyLayout matches the ONS quarterly GDP revisions triangle workbooks.
func QuarterlyLayout() Layout {
	return Layout{
		DropLeadingRows: []int{0, 1, 3, 4, 5},
		DropFinalRow:    true,
		PeriodKind:      period.Quarterly,
	}
}

// MonthlyLayout matches the ONS monthly GDP revisions triangle workbook.
func MonthlyLayout() Layout {
	return Layout{
		DropLeadingRows: []int{0, 1, 3},
		DropFinalColumn: true,
		PeriodKind:      period.Monthly,
	}
}

// Normalize reshapes one raw vintages sheet into a canonical Triangle.
//
// The source layout lists observation periods as columns and estimate releases
// as rows: after the boilerplate rows are dropped, the first surviving row
// carries the period labels, the first column carries release identifiers, and
// the remaining cells are estimates or blank placeholders. Normalize promotes
// the labels, transposes so periods become rows, replaces blanks with explicit
// missing values and re-indexes releases as a dense 0..k-1 sequence.
func Normalize(raw sheetset.RawTable, layout Layout) (*Triangle, error) {
	source := raw.File + " / " + raw.Sheet

	kept := dropRows(raw.Cells, layout)
	if len(kept) < 2 {
		return nil, core.NewEmptyInputError(raw.File, raw.Sheet)
	}

	// First surviving row holds the period labels; cell 0 is the corner above
	// the release-identifier column and carries nothing.
	header := kept[0]
	var labels []string
	if len(header) > 1 {
		labels = trimTrailingBlanks(header[1:])
	}

	releases := kept[1:]
	if layout.DropFinalColumn {
		releases = releases[:len(releases)-1]
	}
	if len(labels) == 0 || len(releases) == 0 {
		return nil, core.NewEmptyInputError(raw.File, raw.Sheet)
	}

	type row struct {
		p     period.Period
		cells []Value
	}
	rows := make([]row, 0, len(labels))
	seen := make(map[period.Period]bool, len(labels))

	for j, label := range labels {
		p, err := period.Parse(label, layout.PeriodKind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, core.NewParseError(j, label))
		}
		if seen[p] {
			return nil, fmt.Errorf("%s: %w", source, core.NewDuplicatePeriodError(p.String()))
		}
		seen[p] = true

		// Transpose: period column j becomes triangle row j; release i
		// becomes estimate index i. The original release labels in column 0
		// are discarded in favour of the dense sequence.
		cells := make([]Value, len(releases))
		for i, rel := range releases {
			if j+1 < len(rel) {
				cells[i] = parseCell(rel[j+1])
			}
		}
		rows = append(rows, row{p: p, cells: cells})
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].p.Before(rows[b].p) })

	tri := &Triangle{
		Periods: make([]period.Period, len(rows)),
		Cells:   make([][]Value, len(rows)),
		Width:   len(releases),
		Source:  source,
	}
	for i, r := range rows {
		tri.Periods[i] = r.p
		tri.Cells[i] = r.cells
	}
	return tri, nil
}

func dropRows(cells [][]string, layout Layout) [][]string {
	drop := make(map[int]bool, len(layout.DropLeadingRows)+1)
	for _, idx := range layout.DropLeadingRows {
		drop[idx] = true
	}
	if layout.DropFinalRow && len(cells) > 0 {
		drop[len(cells)-1] = true
	}

	var kept [][]string
	for i, row := range cells {
		if !drop[i] {
			kept = append(kept, row)
		}
	}
	return kept
}

func trimTrailingBlanks(labels []string) []string {
	end := len(labels)
	for end > 0 && strings.TrimSpace(labels[end-1]) == "" {
		end--
	}
	return labels[:end]
}
