package stats

import (
	"math"
	"sort"

	"orion/domain/core"
	domainstats "orion/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DescribeInput carries one column's samples plus the counting context
// the percentages are computed against.
type DescribeInput struct {
	ColKey           core.ColumnKey
	Name             string
	Samples          []float64
	TotalCount       int
	MissingCount     int
	ConfidenceLevel  float64
	TotalForGroupPct int
}

// Describe computes the full descriptive block for a single column.
// Zero-sample columns still get count/missing bookkeeping so the UI can
// render the row.
func Describe(in DescribeInput) domainstats.ColumnStats {
	cs := domainstats.ColumnStats{
		ColKey:       in.ColKey,
		Name:         in.Name,
		Count:        in.TotalCount,
		MissingCount: in.MissingCount,
	}

	if in.TotalCount > 0 {
		pct := float64(in.MissingCount) / float64(in.TotalCount) * 100
		cs.MissingPct = SafeRound(pct, 2)
	}
	if in.TotalForGroupPct > 0 {
		pct := float64(in.TotalCount) / float64(in.TotalForGroupPct) * 100
		cs.GroupPct = SafeRound(pct, 2)
	}

	n := len(in.Samples)
	if n == 0 {
		return cs
	}

	sorted := make([]float64, n)
	copy(sorted, in.Samples)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(in.Samples)
	median := quantileSorted(sorted, 0.5)
	variance := Variance(in.Samples)
	std := math.Sqrt(variance)
	min := sorted[0]
	max := sorted[n-1]
	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	sum, _ := stats.Sum(in.Samples)

	cs.Mean = SafeRound(mean, 4)
	cs.Median = SafeRound(median, 4)
	cs.Std = SafeRound(std, 4)
	cs.Variance = SafeRound(variance, 4)
	cs.Min = SafeRound(min, 4)
	cs.Max = SafeRound(max, 4)
	cs.Q1 = SafeRound(q1, 4)
	cs.Q3 = SafeRound(q3, 4)
	cs.IQR = SafeRound(q3-q1, 4)
	cs.Range = SafeRound(max-min, 4)
	cs.Sum = SafeRound(sum, 4)
	cs.P5 = SafeRound(quantileSorted(sorted, 0.05), 4)
	cs.P10 = SafeRound(quantileSorted(sorted, 0.10), 4)
	cs.P90 = SafeRound(quantileSorted(sorted, 0.90), 4)
	cs.P95 = SafeRound(quantileSorted(sorted, 0.95), 4)

	if modes, err := stats.Mode(in.Samples); err == nil && len(modes) > 0 {
		cs.Mode = SafeRound(modes[0], 4)
	}

	sem := std / math.Sqrt(float64(n))
	cs.SEM = SafeRound(sem, 4)
	if mean != 0 {
		cs.CV = SafeRound(std/mean*100, 4)
	}

	if n >= 3 {
		cs.Skewness = SafeRound(Skewness(in.Samples), 4)
	}
	if n >= 4 {
		cs.Kurtosis = SafeRound(ExcessKurtosis(in.Samples), 4)
	}

	// t-based confidence interval for the mean
	level := in.ConfidenceLevel
	if level <= 0 || level >= 1 {
		level = 0.95
	}
	if n > 1 && sem > 0 {
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
		tCrit := tDist.Quantile((1 + level) / 2)
		cs.CILower = SafeRound(mean-tCrit*sem, 4)
		cs.CIUpper = SafeRound(mean+tCrit*sem, 4)
	}

	return cs
}
