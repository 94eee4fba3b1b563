package period

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"revkit/domain/core"
)

// Kind selects the calendar granularity of an indicator's observation periods.
type Kind string

const (
	Quarterly Kind = "quarterly"
	Monthly   Kind = "monthly"
)

// Period is a single observation timeframe: one calendar quarter or one
// calendar month, estimated repeatedly across successive releases.
type Period struct {
	Year int
	Ord  int // quarter 1-4 or month 1-12
	Kind Kind
}

// quarterMonths maps the publisher's quarter markers onto the first month of
// each quarter, in the order the replacements are applied to the raw label.
var quarterMonths = strings.NewReplacer(
	"Q1", "01",
	"Q2", "04",
	"Q3", "07",
	"Q4", "10",
)

var labelTokens = regexp.MustCompile(`[A-Za-z]+|\d+`)

// ParseQuarterLabel converts a publisher quarter label such as "2021 Q1" into
// a quarterly Period. The quarter marker is mapped to its first month before
// date parsing, then the result is truncated to quarter granularity.
func ParseQuarterLabel(label string) (Period, error) {
	mapped := strings.TrimSpace(quarterMonths.Replace(label))
	mapped = strings.Join(strings.Fields(mapped), " ")

	for _, layout := range []string{"2006 01", "01 2006"} {
		t, err := time.Parse(layout, mapped)
		if err == nil {
			return Period{Year: t.Year(), Ord: (int(t.Month())-1)/3 + 1, Kind: Quarterly}, nil
		}
	}
	return Period{}, fmt.Errorf("%w: %q", core.ErrParse, label)
}

// ParseMonthLabel converts a publisher month label such as "2021 JAN" or
// "Jan-21" into a monthly Period. Non-alphanumeric separators are stripped and
// the label is reassembled as "<year> <abbreviated month>" before parsing with
// an explicit year-month layout.
func ParseMonthLabel(label string) (Period, error) {
	var monTok, yearTok string
	for _, tok := range labelTokens.FindAllString(label, -1) {
		if tok[0] >= '0' && tok[0] <= '9' {
			yearTok = tok
		} else {
			monTok = tok
		}
	}
	if monTok == "" || yearTok == "" {
		return Period{}, fmt.Errorf("%w: %q", core.ErrParse, label)
	}

	// Month abbreviations arrive in mixed case ("JAN", "jan", "Jan").
	monTok = strings.ToUpper(monTok[:1]) + strings.ToLower(monTok[1:])
	layout := "2006 Jan"
	if len(yearTok) == 2 {
		layout = "06 Jan"
	}

	t, err := time.Parse(layout, yearTok+" "+monTok)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", core.ErrParse, label)
	}
	return Period{Year: t.Year(), Ord: int(t.Month()), Kind: Monthly}, nil
}

// Parse dispatches on kind.
func Parse(label string, kind Kind) (Period, error) {
	if kind == Monthly {
		return ParseMonthLabel(label)
	}
	return ParseQuarterLabel(label)
}

// Before reports whether p falls strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Ord < q.Ord
}

// Equal reports whether two periods denote the same timeframe.
func (p Period) Equal(q Period) bool {
	return p.Year == q.Year && p.Ord == q.Ord && p.Kind == q.Kind
}

// Next returns the immediately following period of the same kind.
func (p Period) Next() Period {
	max := 4
	if p.Kind == Monthly {
		max = 12
	}
	if p.Ord >= max {
		return Period{Year: p.Year + 1, Ord: 1, Kind: p.Kind}
	}
	return Period{Year: p.Year, Ord: p.Ord + 1, Kind: p.Kind}
}

// Time returns the first instant of the period, UTC.
func (p Period) Time() time.Time {
	month := time.Month(p.Ord)
	if p.Kind == Quarterly {
		month = time.Month((p.Ord-1)*3 + 1)
	}
	return time.Date(p.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// String renders the period the way it appears in output files:
// "2021Q1" for quarters, "2021-03" for months.
func (p Period) String() string {
	if p.Kind == Quarterly {
		return fmt.Sprintf("%dQ%d", p.Year, p.Ord)
	}
	return fmt.Sprintf("%d-%02d", p.Year, p.Ord)
}
