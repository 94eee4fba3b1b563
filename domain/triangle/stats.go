package triangle

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeriesStats summarizes one derived revision series over its non-missing
// entries. BiasP is the two-sided Student-t p-value for the null hypothesis
// that the mean revision is zero; NaN when the series is too short or the
// series is the first-estimate level rather than a revision.
type SeriesStats struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
	BiasP  float64
}

// Summarize computes summary statistics for every series in the bundle.
func Summarize(b *Bundle) []SeriesStats {
	out := make([]SeriesStats, 0, len(b.Series))
	for _, s := range b.Series {
		out = append(out, summarizeSeries(s))
	}
	return out
}

func summarizeSeries(s Series) SeriesStats {
	data := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if v.Valid {
			data = append(data, v.Float)
		}
	}

	st := SeriesStats{Name: s.Name, Count: len(data), BiasP: math.NaN()}
	if len(data) == 0 {
		st.Mean = math.NaN()
		st.StdDev = math.NaN()
		st.Min = math.NaN()
		st.Max = math.NaN()
		st.Median = math.NaN()
		return st
	}

	st.Mean, _ = stats.Mean(data)
	st.StdDev, _ = stats.StandardDeviationSample(data)
	st.Min, _ = stats.Min(data)
	st.Max, _ = stats.Max(data)
	st.Median, _ = stats.Median(data)

	// One-sample t-test for revision bias. Only meaningful for revision
	// horizons; the first-estimate series is a level, not a difference.
	if s.Horizon > 0 && len(data) >= 2 && st.StdDev > 0 {
		t := st.Mean / (st.StdDev / math.Sqrt(float64(len(data))))
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(data) - 1)}
		st.BiasP = 2 * dist.CDF(-math.Abs(t))
	}
	return st
}
