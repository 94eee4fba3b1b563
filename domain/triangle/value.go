package triangle

import (
	"strconv"
	"strings"
)

// Value is an optional numeric cell. The zero Value is missing; blank
// placeholder cells from the source never survive as empty strings.
// Missing propagates: any arithmetic involving a missing Value is missing.
type Value struct {
	Float float64
	Valid bool
}

// Some wraps a present numeric value.
func Some(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Missing is the explicit absent cell.
var Missing = Value{}

// parseCell converts one raw cell into a Value. Whitespace-only cells are
// missing; thousands separators are tolerated. Anything else non-numeric is
// treated as missing rather than a hard failure, since trailing footnote text
// inside the data area is a known quirk of the source workbooks.
func parseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing
	}
	return Some(f)
}
