package triangle

import (
	"revkit/domain/period"
)

// Triangle is the canonical revisions matrix. Rows are observation periods in
// strictly increasing order; columns are estimate sequence indices, 0 being
// the period's first published estimate. On well-formed input the non-missing
// cells of a row occupy a prefix of the column indices, because releases are
// append-only in time.
type Triangle struct {
	Periods []period.Period
	Cells   [][]Value // len(Cells) == len(Periods); each row has Width cells
	Width   int       // number of estimate releases
	Source  string    // "file / sheet", carried for diagnostics
}

// Len returns the number of observation periods.
func (t *Triangle) Len() int {
	return len(t.Periods)
}

// Cell returns the value at the given row and estimate index.
func (t *Triangle) Cell(row, col int) Value {
	return t.Cells[row][col]
}

// NonMissing returns the present values of one row in release order, the
// "dropna" view the deriver works over.
func (t *Triangle) NonMissing(row int) []Value {
	var out []Value
	for _, v := range t.Cells[row] {
		if v.Valid {
			out = append(out, v)
		}
	}
	return out
}
