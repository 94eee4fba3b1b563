package triangle

import (
	"fmt"
	"math"
)

// DefaultHorizons are the estimate offsets the revision series are measured
// at: the first estimate itself, the next four releases, then one and three
// years of quarterly releases.
var DefaultHorizons = []int{0, 1, 2, 3, 4, 12, 36}

// Series is one derived revision series: exactly one entry per triangle
// period, in triangle row order, missing where the horizon's target release
// has not been published yet.
type Series struct {
	Name    string
	Horizon int
	Values  []Value
}

// Bundle is the terminal artifact of one dataset's pipeline run: the
// canonical triangle plus its derived revision series.
type Bundle struct {
	Name     string
	Triangle *Triangle
	Series   []Series
}

// Derive builds the revision series for each horizon. For horizon 0 the value
// is the row's first published estimate. For horizon h > 0 it is the h-th
// non-missing estimate minus the first, rounded to 3 decimal places; rows with
// fewer than h+1 published estimates yield missing, never an error.
//
// Rounding is half-away-from-zero (math.Round). The upstream toolchain used
// the host default instead, so tie values can differ from it by 0.0005.
func Derive(tri *Triangle, horizons []int) *Bundle {
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}

	bundle := &Bundle{Triangle: tri, Series: make([]Series, 0, len(horizons))}
	for _, h := range horizons {
		s := Series{Name: SeriesName(h), Horizon: h, Values: make([]Value, tri.Len())}
		for row := 0; row < tri.Len(); row++ {
			s.Values[row] = reviseAt(tri.NonMissing(row), h)
		}
		bundle.Series = append(bundle.Series, s)
	}
	return bundle
}

// reviseAt computes one cell of a revision series from a row's non-missing
// prefix. Missing stays missing; it is never coerced to zero.
func reviseAt(estimates []Value, horizon int) Value {
	if len(estimates) == 0 {
		return Missing
	}
	first := estimates[0]
	if horizon == 0 {
		return first
	}
	if horizon >= len(estimates) {
		return Missing
	}
	return Some(round3(estimates[horizon].Float - first.Float))
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// SeriesName renders the conventional output column name for a horizon.
func SeriesName(horizon int) string {
	if horizon == 0 {
		return "First Estimate"
	}
	return fmt.Sprintf("%s Period", ordinal(horizon))
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
