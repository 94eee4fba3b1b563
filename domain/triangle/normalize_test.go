package triangle

import (
	"testing"

	"revkit/domain/core"
	"revkit/domain/period"
	"revkit/domain/sheetset"
	"revkit/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawQuarterly(labels []string, estimates [][]string) sheetset.RawTable {
	return sheetset.RawTable{
		File:  "abmi.xlsx",
		Sheet: "Revisions Triangle",
		Cells: testkit.QuarterlyVintagesGrid(labels, estimates),
	}
}

func TestNormalize_Quarterly(t *testing.T) {
	raw := rawQuarterly(
		[]string{"2020 Q1", "2020 Q2", "2020 Q3"},
		[][]string{
			{"100.0", "98.5", "99.1"},
			{"100.2", "98.4", ""},
			{"100.3", "", ""},
		},
	)

	tri, err := Normalize(raw, QuarterlyLayout())
	require.NoError(t, err)

	require.Equal(t, 3, tri.Len())
	assert.Equal(t, 3, tri.Width)
	assert.Equal(t, period.Period{Year: 2020, Ord: 1, Kind: period.Quarterly}, tri.Periods[0])
	assert.Equal(t, period.Period{Year: 2020, Ord: 3, Kind: period.Quarterly}, tri.Periods[2])

	// Transposed: row = period, column = estimate release.
	assert.Equal(t, Some(100.0), tri.Cell(0, 0))
	assert.Equal(t, Some(100.2), tri.Cell(0, 1))
	assert.Equal(t, Some(100.3), tri.Cell(0, 2))
	assert.Equal(t, Some(98.5), tri.Cell(1, 0))
	assert.Equal(t, Missing, tri.Cell(1, 2))
	assert.Equal(t, Missing, tri.Cell(2, 1))
}

func TestNormalize_RowsSortedAscending(t *testing.T) {
	raw := rawQuarterly(
		[]string{"2021 Q2", "2020 Q4", "2021 Q1"},
		[][]string{{"1.0", "2.0", "3.0"}},
	)

	tri, err := Normalize(raw, QuarterlyLayout())
	require.NoError(t, err)

	for i := 1; i < tri.Len(); i++ {
		assert.True(t, tri.Periods[i-1].Before(tri.Periods[i]),
			"periods must be strictly increasing: %s then %s", tri.Periods[i-1], tri.Periods[i])
	}
	// Values travel with their period through the sort.
	assert.Equal(t, period.Period{Year: 2020, Ord: 4, Kind: period.Quarterly}, tri.Periods[0])
	assert.Equal(t, Some(2.0), tri.Cell(0, 0))
	assert.Equal(t, Some(1.0), tri.Cell(2, 0))
}

func TestNormalize_Monthly(t *testing.T) {
	raw := sheetset.RawTable{
		File:  "mgdp revision triangle (m on m).xlsx",
		Sheet: "First estimate",
		Cells: testkit.MonthlyVintagesGrid(
			[]string{"2021 JAN", "2021 FEB"},
			[][]string{
				{"0.4", "0.6"},
				{"0.5", ""},
			},
		),
	}

	tri, err := Normalize(raw, MonthlyLayout())
	require.NoError(t, err)

	require.Equal(t, 2, tri.Len())
	// The trailing metadata release row is dropped, leaving two real releases.
	assert.Equal(t, 2, tri.Width)
	assert.Equal(t, period.Period{Year: 2021, Ord: 1, Kind: period.Monthly}, tri.Periods[0])
	assert.Equal(t, Some(0.4), tri.Cell(0, 0))
	assert.Equal(t, Some(0.5), tri.Cell(0, 1))
	assert.Equal(t, Missing, tri.Cell(1, 1))
}

func TestNormalize_BlankPlaceholdersBecomeMissing(t *testing.T) {
	raw := rawQuarterly(
		[]string{"2020 Q1"},
		[][]string{{" "}, {""}, {"1.5"}},
	)

	tri, err := Normalize(raw, QuarterlyLayout())
	require.NoError(t, err)

	assert.Equal(t, Missing, tri.Cell(0, 0))
	assert.Equal(t, Missing, tri.Cell(0, 1))
	assert.Equal(t, Some(1.5), tri.Cell(0, 2))
}

func TestNormalize_MalformedLabelFailsLoudly(t *testing.T) {
	raw := rawQuarterly(
		[]string{"2020 Q1", "2020 Qx"},
		[][]string{{"1.0", "2.0"}},
	)

	_, err := Normalize(raw, QuarterlyLayout())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrParse)
	assert.True(t, core.IsParseError(err))
	assert.Contains(t, err.Error(), "2020 Qx")
}

func TestNormalize_DuplicatePeriod(t *testing.T) {
	raw := rawQuarterly(
		[]string{"2021 Q2", "2021 Q2"},
		[][]string{{"1.0", "2.0"}},
	)

	_, err := Normalize(raw, QuarterlyLayout())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicatePeriod)
	assert.Contains(t, err.Error(), "2021Q2")
}

func TestNormalize_EmptyInput(t *testing.T) {
	raw := sheetset.RawTable{File: "abmi.xlsx", Sheet: "Triangle", Cells: nil}
	_, err := Normalize(raw, QuarterlyLayout())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	// A grid that is all boilerplate strips down to nothing.
	raw.Cells = [][]string{
		{"title"}, {"subtitle"}, {"Estimate"}, {"note"}, {"note"}, {"units"}, {"footer"},
	}
	_, err = Normalize(raw, QuarterlyLayout())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyInput)
	assert.True(t, core.IsNormalizationError(err))
}

func TestNormalize_PrefixInvariantOnAppendOnlyData(t *testing.T) {
	raw := rawQuarterly(
		[]string{"2020 Q1", "2020 Q2", "2020 Q3", "2020 Q4"},
		[][]string{
			{"1.0", "2.0", "3.0", "4.0"},
			{"1.1", "2.1", "3.1", ""},
			{"1.2", "2.2", "", ""},
			{"1.3", "", "", ""},
		},
	)

	tri, err := Normalize(raw, QuarterlyLayout())
	require.NoError(t, err)

	for row := 0; row < tri.Len(); row++ {
		sawMissing := false
		for col := 0; col < tri.Width; col++ {
			if !tri.Cell(row, col).Valid {
				sawMissing = true
			} else {
				assert.False(t, sawMissing,
					"row %d col %d: non-missing after missing breaks the prefix property", row, col)
			}
		}
	}
}
