package app

import (
	"revkit/domain/triangle"
)

// Indicator is the per-dataset configuration the pipeline fans out over:
// which release to fetch, which sheets carry vintages, how the publisher's
// layout is cleaned, and what the output files are called.
type Indicator struct {
	Name         string
	LandingURL   string
	ExpectedFile string   // workbook that must exist inside the release archive
	FileFilters  []string // case-insensitive substring match on workbook names
	SheetFilters []string // case-insensitive substring match on sheet names
	Layout       triangle.Layout
}

// DefaultIndicators mirrors the published ONS GDP revisions datasets: the
// four quarterly breakdowns plus monthly GDP.
func DefaultIndicators() []Indicator {
	const onsGDP = "https://www.ons.gov.uk/economy/grossdomesticproductgdp/datasets/"

	quarterly := triangle.QuarterlyLayout()
	return []Indicator{
		{
			Name:         "headline_qgdp",
			LandingURL:   onsGDP + "revisionstrianglesforukgdpabmi",
			ExpectedFile: "ABMI - Quarterly GDP at Market Prices.xlsx",
			FileFilters:  []string{"abmi"},
			SheetFilters: []string{"triangle", "estimate"},
			Layout:       quarterly,
		},
		{
			Name:         "income_qgdp",
			LandingURL:   onsGDP + "revisionstrianglesforukgdpincome",
			FileFilters:  []string{"income"},
			SheetFilters: []string{"triangle", "estimate"},
			Layout:       quarterly,
		},
		{
			Name:         "expenditure_qgdp",
			LandingURL:   onsGDP + "revisionstrianglesforukgdpexpenditure",
			FileFilters:  []string{"expenditure"},
			SheetFilters: []string{"triangle", "estimate"},
			Layout:       quarterly,
		},
		{
			Name:         "deflator_qgdp",
			LandingURL:   onsGDP + "revisionstrianglesforukgdpdeflator",
			FileFilters:  []string{"deflator"},
			SheetFilters: []string{"triangle", "estimate"},
			Layout:       quarterly,
		},
		{
			Name:         "headline_mgdp",
			LandingURL:   onsGDP + "revisionstrianglesformonthlygdp",
			ExpectedFile: "mgdp revision triangle (m on m).xlsx",
			FileFilters:  []string{"mgdp revision triangle (m on m)"},
			SheetFilters: []string{"estimate"},
			Layout:       triangle.MonthlyLayout(),
		},
	}
}

// FindIndicator returns the configured indicator with the given name.
func FindIndicator(name string, indicators []Indicator) (Indicator, bool) {
	for _, ind := range indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return Indicator{}, false
}
