package stats

import (
	"fmt"
	"math"
	"sort"

	"orion/domain/core"
	domainstats "orion/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// DAgostinoK2 is the omnibus normality test combining the skewness and
// kurtosis z-scores. Needs at least 8 observations.
func DAgostinoK2(vals []float64) TestOutcome {
	n := float64(len(vals))
	if n < 8 {
		return TestOutcome{PValue: 1}
	}

	zs := skewnessZ(vals)
	zk := kurtosisZ(vals)
	k2 := zs*zs + zk*zk
	chi := distuv.ChiSquared{K: 2}
	return TestOutcome{Statistic: k2, PValue: chi.Survival(k2), DF: 2}
}

// skewnessZ transforms sample skewness to an approximately standard
// normal variate (D'Agostino 1970).
func skewnessZ(vals []float64) float64 {
	n := float64(len(vals))
	g1 := sampleSkewnessG1(vals)

	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		return 0
	}
	return delta * math.Log(y/alpha+math.Sqrt(y*y/(alpha*alpha)+1))
}

// kurtosisZ transforms sample kurtosis to an approximately standard
// normal variate (Anscombe & Glynn 1983).
func kurtosisZ(vals []float64) float64 {
	n := float64(len(vals))
	g2 := sampleKurtosisG2(vals)
	b2 := g2 + 3

	eb2 := 3 * (n - 1) / (n + 1)
	vb2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - eb2) / math.Sqrt(vb2)
	beta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/beta1*(2/beta1+math.Sqrt(1+4/(beta1*beta1)))
	term := (1 - 2/a) / (1 + x*math.Sqrt(2/(a-4)))
	if term <= 0 {
		term = math.SmallestNonzeroFloat64
	}
	return (1 - 2/(9*a) - math.Cbrt(term)) / math.Sqrt(2/(9*a))
}

// sampleSkewnessG1 is the biased moment estimator g1.
func sampleSkewnessG1(vals []float64) float64 {
	n := float64(len(vals))
	mean := Mean(vals)
	var m2, m3 float64
	for _, v := range vals {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// sampleKurtosisG2 is the biased excess-kurtosis estimator g2.
func sampleKurtosisG2(vals []float64) float64 {
	n := float64(len(vals))
	mean := Mean(vals)
	var m2, m4 float64
	for _, v := range vals {
		d := v - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

// KolmogorovSmirnovNormal compares the empirical CDF against a normal
// distribution fitted to the sample. The p-value uses the asymptotic
// Kolmogorov distribution.
func KolmogorovSmirnovNormal(vals []float64) TestOutcome {
	n := len(vals)
	if n < 3 {
		return TestOutcome{PValue: 1}
	}
	mean := Mean(vals)
	std := StdDev(vals)
	if std == 0 {
		return TestOutcome{Statistic: 1, PValue: 0}
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	dist := distuv.Normal{Mu: mean, Sigma: std}
	var d float64
	for i, v := range sorted {
		cdf := dist.CDF(v)
		upper := float64(i+1)/float64(n) - cdf
		lower := cdf - float64(i)/float64(n)
		d = math.Max(d, math.Max(upper, lower))
	}
	return TestOutcome{Statistic: d, PValue: ksPValue(d, n)}
}

// ksPValue evaluates the asymptotic Kolmogorov survival series.
func ksPValue(d float64, n int) float64 {
	lambda := (math.Sqrt(float64(n)) + 0.12 + 0.11/math.Sqrt(float64(n))) * d
	if lambda <= 0 {
		return 1
	}
	var sum float64
	for k := 1; k <= 100; k++ {
		term := 2 * math.Pow(-1, float64(k-1)) * math.Exp(-2*lambda*lambda*float64(k)*float64(k))
		sum += term
		if math.Abs(term) < 1e-10 {
			break
		}
	}
	return math.Min(math.Max(sum, 0), 1)
}

// IsNormal is the gate the comparison selector uses: D'Agostino K² when
// the sample is large enough, otherwise a skewness/kurtosis heuristic.
func IsNormal(vals []float64, alpha float64) bool {
	if len(vals) >= 8 {
		return DAgostinoK2(vals).PValue > alpha
	}
	if len(vals) < 3 {
		return true
	}
	return math.Abs(Skewness(vals)) < 2
}

// CheckNormality runs the full normality panel for one variable.
func CheckNormality(colKey core.ColumnKey, name string, vals []float64, alpha float64) domainstats.NormalityResult {
	res := domainstats.NormalityResult{
		Variable:     colKey,
		VariableName: name,
		N:            len(vals),
	}
	if len(vals) >= 3 {
		res.Skewness = Round(Skewness(vals), 4)
	}
	if len(vals) >= 4 {
		res.Kurtosis = Round(ExcessKurtosis(vals), 4)
	}

	var normalVotes, total int
	if len(vals) >= 8 {
		out := DAgostinoK2(vals)
		ok := out.PValue > alpha
		res.Tests = append(res.Tests, domainstats.NormalityTestDetail{
			TestName:  "dagostino_k2",
			Statistic: Round(out.Statistic, 4),
			PValue:    Round(out.PValue, 6),
			IsNormal:  ok,
		})
		total++
		if ok {
			normalVotes++
		}
	}
	if len(vals) >= 3 {
		out := KolmogorovSmirnovNormal(vals)
		ok := out.PValue > alpha
		res.Tests = append(res.Tests, domainstats.NormalityTestDetail{
			TestName:  "kolmogorov_smirnov",
			Statistic: Round(out.Statistic, 4),
			PValue:    Round(out.PValue, 6),
			IsNormal:  ok,
		})
		total++
		if ok {
			normalVotes++
		}
	}

	res.OverallNormal = total > 0 && normalVotes*2 >= total
	switch {
	case total == 0:
		res.Interpretation = fmt.Sprintf("Too few observations (n=%d) to assess normality for %s.", len(vals), name)
	case res.OverallNormal:
		res.Interpretation = fmt.Sprintf("%s is consistent with a normal distribution; parametric tests are appropriate.", name)
	default:
		res.Interpretation = fmt.Sprintf("%s deviates from normality; consider non-parametric tests or a transformation.", name)
	}
	return res
}
