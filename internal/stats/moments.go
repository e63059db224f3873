// Package stats implements the descriptive and inferential statistics
// the analysis endpoints expose. Everything here is pure and
// synchronous: samples in, results out.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, 0 for empty input
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Variance returns the sample variance (n-1 denominator), 0 when n < 2
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	mean := Mean(data)
	sumSq := 0.0
	for _, v := range data {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(data)-1)
}

// StdDev returns the sample standard deviation
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Quantile computes the q-th quantile (0..1) by linear interpolation:
// position = (n-1)*q, interpolated between the floor and ceil ranks.
// The input does not need to be sorted.
func Quantile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := float64(n-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Skewness returns the adjusted Fisher-Pearson coefficient
// G1 = sqrt(n(n-1))/(n-2) * g1, where g1 is the population-moment
// estimator. Matches pandas Series.skew. 0 when undefined (n < 3 or
// zero spread).
func Skewness(data []float64) float64 {
	n := float64(len(data))
	if n < 3 {
		return 0
	}
	g1 := sampleSkewnessG1(data)
	if g1 == 0 {
		return 0
	}
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// ExcessKurtosis returns the bias-corrected excess kurtosis
// G2 = (n-1)/((n-2)(n-3)) * ((n+1)*g2 + 6), with g2 the
// population-moment estimator. Matches pandas Series.kurtosis. 0 when
// undefined (n < 4 or zero spread).
func ExcessKurtosis(data []float64) float64 {
	n := float64(len(data))
	if n < 4 {
		return 0
	}
	if Variance(data) == 0 {
		return 0
	}
	g2 := sampleKurtosisG2(data)
	return (n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6)
}

// Round rounds to the given number of decimal places
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// SafeRound rounds to decimals and returns nil for non-finite values,
// keeping payloads JSON-safe.
func SafeRound(v float64, decimals int) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	rounded := Round(v, decimals)
	return &rounded
}

// Finite reports whether v is a usable number
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
