package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestOutcome is the raw statistic/p-value pair from a test primitive.
type TestOutcome struct {
	Statistic float64
	PValue    float64
	DF        float64
}

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

func tPValueTwoSided(t, df float64) float64 {
	if df <= 0 || !Finite(t) {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}

// OneSampleT tests whether the sample mean differs from mu.
func OneSampleT(sample []float64, mu float64) TestOutcome {
	n := float64(len(sample))
	if n < 2 {
		return TestOutcome{PValue: 1}
	}
	mean := Mean(sample)
	sem := math.Sqrt(Variance(sample) / n)
	if sem == 0 {
		return TestOutcome{PValue: 1, DF: n - 1}
	}
	t := (mean - mu) / sem
	return TestOutcome{Statistic: t, PValue: tPValueTwoSided(t, n-1), DF: n - 1}
}

// StudentT is the pooled-variance two-sample t-test.
func StudentT(a, b []float64) TestOutcome {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return TestOutcome{PValue: 1}
	}
	v1, v2 := Variance(a), Variance(b)
	pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return TestOutcome{PValue: 1, DF: n1 + n2 - 2}
	}
	t := (Mean(a) - Mean(b)) / se
	df := n1 + n2 - 2
	return TestOutcome{Statistic: t, PValue: tPValueTwoSided(t, df), DF: df}
}

// WelchT is the unequal-variance two-sample t-test with
// Welch-Satterthwaite degrees of freedom.
func WelchT(a, b []float64) TestOutcome {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return TestOutcome{PValue: 1}
	}
	v1, v2 := Variance(a)/n1, Variance(b)/n2
	se := math.Sqrt(v1 + v2)
	if se == 0 {
		return TestOutcome{PValue: 1}
	}
	t := (Mean(a) - Mean(b)) / se
	df := (v1 + v2) * (v1 + v2) / (v1*v1/(n1-1) + v2*v2/(n2-1))
	return TestOutcome{Statistic: t, PValue: tPValueTwoSided(t, df), DF: df}
}

// PairedT runs a one-sample t-test on the element-wise differences.
func PairedT(a, b []float64) TestOutcome {
	n := len(a)
	if n != len(b) || n < 2 {
		return TestOutcome{PValue: 1}
	}
	diffs := make([]float64, n)
	for i := range a {
		diffs[i] = a[i] - b[i]
	}
	return OneSampleT(diffs, 0)
}

// ranks assigns average ranks (1-based) and returns the tie term
// sum(t^3 - t) used by the rank-test variance corrections.
func ranks(vals []float64) ([]float64, float64) {
	n := len(vals)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return vals[idx[i]] < vals[idx[j]] })

	out := make([]float64, n)
	var tieTerm float64
	i := 0
	for i < n {
		j := i
		for j+1 < n && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		if t := float64(j - i + 1); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j + 1
	}
	return out, tieTerm
}

// MannWhitneyU is the rank-sum test with tie-corrected normal
// approximation and continuity correction. Statistic is U for the
// first sample.
func MannWhitneyU(a, b []float64) TestOutcome {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 1 || n2 < 1 {
		return TestOutcome{PValue: 1}
	}
	combined := make([]float64, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	r, tieTerm := ranks(combined)

	var r1 float64
	for i := range a {
		r1 += r[i]
	}
	u1 := r1 - n1*(n1+1)/2
	n := n1 + n2
	mu := n1 * n2 / 2
	sigma2 := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if sigma2 <= 0 {
		return TestOutcome{Statistic: u1, PValue: 1}
	}
	z := (math.Abs(u1-mu) - 0.5) / math.Sqrt(sigma2)
	if z < 0 {
		z = 0
	}
	return TestOutcome{Statistic: u1, PValue: 2 * stdNormal.Survival(z)}
}

// WilcoxonSignedRank tests paired samples without a normality
// assumption. Zero differences are dropped; statistic is the smaller
// of the signed rank sums.
func WilcoxonSignedRank(a, b []float64) TestOutcome {
	if len(a) != len(b) {
		return TestOutcome{PValue: 1}
	}
	var diffs []float64
	for i := range a {
		if d := a[i] - b[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := float64(len(diffs))
	if n < 1 {
		return TestOutcome{PValue: 1}
	}
	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	r, tieTerm := ranks(abs)
	var wPlus float64
	for i, d := range diffs {
		if d > 0 {
			wPlus += r[i]
		}
	}
	total := n * (n + 1) / 2
	w := math.Min(wPlus, total-wPlus)
	mu := total / 2
	sigma2 := n*(n+1)*(2*n+1)/24 - tieTerm/48
	if sigma2 <= 0 {
		return TestOutcome{Statistic: w, PValue: 1}
	}
	z := (math.Abs(w-mu) - 0.5) / math.Sqrt(sigma2)
	if z < 0 {
		z = 0
	}
	return TestOutcome{Statistic: w, PValue: 2 * stdNormal.Survival(z)}
}

// OneWayANOVA returns the F statistic, its p-value, and eta squared.
func OneWayANOVA(groups [][]float64) (TestOutcome, float64) {
	k := len(groups)
	if k < 2 {
		return TestOutcome{PValue: 1}, 0
	}
	var total float64
	var n int
	for _, g := range groups {
		n += len(g)
		for _, v := range g {
			total += v
		}
	}
	if n <= k {
		return TestOutcome{PValue: 1}, 0
	}
	grand := total / float64(n)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		m := Mean(g)
		ssBetween += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}
	dfB := float64(k - 1)
	dfW := float64(n - k)
	if ssWithin == 0 {
		eta := 0.0
		if ssBetween > 0 {
			eta = 1
		}
		return TestOutcome{Statistic: math.Inf(1), PValue: 0, DF: dfB}, eta
	}
	f := (ssBetween / dfB) / (ssWithin / dfW)
	fDist := distuv.F{D1: dfB, D2: dfW}
	etaSq := ssBetween / (ssBetween + ssWithin)
	return TestOutcome{Statistic: f, PValue: fDist.Survival(f), DF: dfB}, etaSq
}

// KruskalWallis is the rank analogue of one-way ANOVA with tie
// correction and a chi-squared approximation.
func KruskalWallis(groups [][]float64) TestOutcome {
	k := len(groups)
	if k < 2 {
		return TestOutcome{PValue: 1}
	}
	var combined []float64
	sizes := make([]int, k)
	for i, g := range groups {
		sizes[i] = len(g)
		combined = append(combined, g...)
	}
	n := float64(len(combined))
	if n < float64(k)+1 {
		return TestOutcome{PValue: 1}
	}
	r, tieTerm := ranks(combined)

	var h float64
	off := 0
	for i := range groups {
		var rSum float64
		for j := 0; j < sizes[i]; j++ {
			rSum += r[off+j]
		}
		off += sizes[i]
		h += rSum * rSum / float64(sizes[i])
	}
	h = 12/(n*(n+1))*h - 3*(n+1)
	if corr := 1 - tieTerm/(n*n*n-n); corr > 0 {
		h /= corr
	}
	chi := distuv.ChiSquared{K: float64(k - 1)}
	return TestOutcome{Statistic: h, PValue: chi.Survival(h), DF: float64(k - 1)}
}

// Levene checks homogeneity of variances using median-centered
// deviations (the Brown-Forsythe variant).
func Levene(groups [][]float64) TestOutcome {
	k := len(groups)
	if k < 2 {
		return TestOutcome{PValue: 1}
	}
	devs := make([][]float64, k)
	for i, g := range groups {
		if len(g) < 2 {
			return TestOutcome{PValue: 1}
		}
		med := Quantile(g, 0.5)
		d := make([]float64, len(g))
		for j, v := range g {
			d[j] = math.Abs(v - med)
		}
		devs[i] = d
	}
	out, _ := OneWayANOVA(devs)
	return out
}

// CohensD is the pooled standardized mean difference.
func CohensD(a, b []float64) float64 {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return 0
	}
	pooled := ((n1-1)*Variance(a) + (n2-1)*Variance(b)) / (n1 + n2 - 2)
	if pooled == 0 {
		return 0
	}
	return (Mean(a) - Mean(b)) / math.Sqrt(pooled)
}

// InterpretCohensD maps |d| onto the conventional bands.
func InterpretCohensD(d float64) string {
	switch abs := math.Abs(d); {
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// InterpretEtaSquared maps eta squared onto the conventional bands.
func InterpretEtaSquared(e float64) string {
	switch {
	case e < 0.01:
		return "negligible"
	case e < 0.06:
		return "small"
	case e < 0.14:
		return "medium"
	default:
		return "large"
	}
}
