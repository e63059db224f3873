package stats

import (
	"fmt"
	"math"

	domainstats "orion/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// Hypothesis test identifiers accepted by RunHypothesisTest.
const (
	TestOneSampleT   = "one_sample_t"
	TestIndependentT = "independent_t"
	TestPairedT      = "paired_t"
	TestMannWhitney  = "mann_whitney"
	TestWilcoxon     = "wilcoxon"
	TestOneWayANOVA  = "one_way_anova"
	TestKruskal      = "kruskal_wallis"
)

// Alternatives accepted by HypothesisRequest. The omnibus tests
// (ANOVA, Kruskal-Wallis) ignore the alternative, their statistic is
// inherently one-tailed.
const (
	AltTwoSided = "two_sided"
	AltGreater  = "greater"
	AltLess     = "less"
)

// HypothesisRequest carries everything a single named test needs.
// Groups holds one sample for one-sample tests, two for pairwise
// tests, and two or more for the omnibus tests. Mu is only read by the
// one-sample t-test.
type HypothesisRequest struct {
	TestType    string
	Groups      []GroupSamples
	Mu          float64
	Alpha       float64
	Alternative string
}

// RunHypothesisTest executes the named test and assembles the verdict,
// effect size, and interpretation text.
func RunHypothesisTest(req HypothesisRequest) (domainstats.HypothesisTestResult, error) {
	alpha := req.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}

	res := domainstats.HypothesisTestResult{TestType: req.TestType}
	for _, g := range req.Groups {
		if len(g.Values) == 0 {
			continue
		}
		res.GroupsSummary = append(res.GroupsSummary, domainstats.GroupMoments{
			Group: g.Label,
			N:     len(g.Values),
			Mean:  Round(Mean(g.Values), 4),
			Std:   Round(StdDev(g.Values), 4),
		})
	}

	var out TestOutcome
	switch req.TestType {
	case TestOneSampleT:
		a, err := oneGroup(req.Groups)
		if err != nil {
			return res, err
		}
		out = OneSampleT(a, req.Mu)
		res.TestName = "One-sample t-test"
		diff := Mean(a) - req.Mu
		if sd := StdDev(a); sd > 0 {
			d := diff / sd
			res.EffectSize = SafeRound(d, 4)
			res.EffectSizeName = "cohens_d"
			res.EffectSizeLabel = InterpretCohensD(d)
		}
		if lo, hi, ok := meanCI(a, alpha); ok {
			res.CILower = SafeRound(lo, 4)
			res.CIUpper = SafeRound(hi, 4)
		}

	case TestIndependentT:
		a, b, err := twoGroups(req.Groups)
		if err != nil {
			return res, err
		}
		// Welch by default: it stays valid when variances differ.
		out = WelchT(a, b)
		res.TestName = "Independent t-test (Welch)"
		attachCohensD(&res, a, b)
		if lo, hi, ok := meanDiffCI(a, b, out.DF, alpha); ok {
			res.CILower = SafeRound(lo, 4)
			res.CIUpper = SafeRound(hi, 4)
		}

	case TestPairedT:
		a, b, err := twoGroups(req.Groups)
		if err != nil {
			return res, err
		}
		if len(a) != len(b) {
			return res, fmt.Errorf("paired t-test: samples must be the same length (%d vs %d)", len(a), len(b))
		}
		out = PairedT(a, b)
		res.TestName = "Paired t-test"
		attachCohensD(&res, a, b)

	case TestMannWhitney:
		a, b, err := twoGroups(req.Groups)
		if err != nil {
			return res, err
		}
		out = MannWhitneyU(a, b)
		res.TestName = "Mann-Whitney U test"
		attachCohensD(&res, a, b)

	case TestWilcoxon:
		a, b, err := twoGroups(req.Groups)
		if err != nil {
			return res, err
		}
		if len(a) != len(b) {
			return res, fmt.Errorf("wilcoxon: samples must be the same length (%d vs %d)", len(a), len(b))
		}
		out = WilcoxonSignedRank(a, b)
		res.TestName = "Wilcoxon signed-rank test"
		attachCohensD(&res, a, b)

	case TestOneWayANOVA:
		arrays, err := manyGroups(req.Groups)
		if err != nil {
			return res, err
		}
		var etaSq float64
		out, etaSq = OneWayANOVA(arrays)
		res.TestName = "One-way ANOVA"
		res.EffectSize = SafeRound(etaSq, 4)
		res.EffectSizeName = "eta_squared"
		res.EffectSizeLabel = InterpretEtaSquared(etaSq)

	case TestKruskal:
		arrays, err := manyGroups(req.Groups)
		if err != nil {
			return res, err
		}
		out = KruskalWallis(arrays)
		res.TestName = "Kruskal-Wallis H test"
		_, etaSq := OneWayANOVA(arrays)
		res.EffectSize = SafeRound(etaSq, 4)
		res.EffectSizeName = "eta_squared"
		res.EffectSizeLabel = InterpretEtaSquared(etaSq)

	default:
		return res, fmt.Errorf("unknown test type %q", req.TestType)
	}

	switch req.TestType {
	case TestOneSampleT, TestIndependentT, TestPairedT:
		var err error
		out.PValue, err = directionalP(out, req.Alternative)
		if err != nil {
			return res, err
		}
	default:
		// Rank statistics carry no sign and the omnibus tests are
		// inherently one-tailed, only two-sided is supported there.
		if req.Alternative != "" && req.Alternative != AltTwoSided {
			return res, fmt.Errorf("%s only supports the two-sided alternative", req.TestType)
		}
	}

	res.Statistic = Round(out.Statistic, 4)
	res.PValue = Round(out.PValue, 6)
	res.Significant = out.PValue < alpha
	if res.Significant {
		res.Decision = "reject_null"
		res.Interpretation = fmt.Sprintf("%s: the difference is statistically significant (p=%.4f < %.2f).", res.TestName, res.PValue, alpha)
	} else {
		res.Decision = "fail_to_reject_null"
		res.Interpretation = fmt.Sprintf("%s: no statistically significant difference detected (p=%.4f >= %.2f).", res.TestName, res.PValue, alpha)
	}
	if res.EffectSizeLabel != "" {
		res.Interpretation += fmt.Sprintf(" Effect size is %s.", res.EffectSizeLabel)
	}
	return res, nil
}

// directionalP folds a two-sided p-value into the requested tail
// using the sign of the t statistic.
func directionalP(out TestOutcome, alternative string) (float64, error) {
	switch alternative {
	case "", AltTwoSided:
		return out.PValue, nil
	case AltGreater:
		if out.Statistic > 0 {
			return out.PValue / 2, nil
		}
		return 1 - out.PValue/2, nil
	case AltLess:
		if out.Statistic < 0 {
			return out.PValue / 2, nil
		}
		return 1 - out.PValue/2, nil
	}
	return 0, fmt.Errorf("unknown alternative %q", alternative)
}

func oneGroup(groups []GroupSamples) ([]float64, error) {
	if len(groups) < 1 || len(groups[0].Values) < 2 {
		return nil, fmt.Errorf("test needs one sample with at least 2 observations")
	}
	return groups[0].Values, nil
}

func twoGroups(groups []GroupSamples) ([]float64, []float64, error) {
	if len(groups) < 2 || len(groups[0].Values) < 2 || len(groups[1].Values) < 2 {
		return nil, nil, fmt.Errorf("test needs two samples with at least 2 observations each")
	}
	return groups[0].Values, groups[1].Values, nil
}

func manyGroups(groups []GroupSamples) ([][]float64, error) {
	arrays := make([][]float64, 0, len(groups))
	for _, g := range groups {
		if len(g.Values) >= 2 {
			arrays = append(arrays, g.Values)
		}
	}
	if len(arrays) < 2 {
		return nil, fmt.Errorf("test needs at least 2 groups with 2+ observations, have %d", len(arrays))
	}
	return arrays, nil
}

func attachCohensD(res *domainstats.HypothesisTestResult, a, b []float64) {
	d := CohensD(a, b)
	res.EffectSize = SafeRound(d, 4)
	res.EffectSizeName = "cohens_d"
	res.EffectSizeLabel = InterpretCohensD(d)
}

// meanCI is the t-based confidence interval for a single mean.
func meanCI(vals []float64, alpha float64) (lo, hi float64, ok bool) {
	n := float64(len(vals))
	if n < 2 {
		return 0, 0, false
	}
	sem := math.Sqrt(Variance(vals) / n)
	if sem == 0 {
		return 0, 0, false
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}.Quantile(1 - alpha/2)
	m := Mean(vals)
	return m - t*sem, m + t*sem, true
}

// meanDiffCI is the Welch confidence interval for a mean difference.
func meanDiffCI(a, b []float64, df, alpha float64) (lo, hi float64, ok bool) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 || df <= 0 {
		return 0, 0, false
	}
	se := math.Sqrt(Variance(a)/n1 + Variance(b)/n2)
	if se == 0 {
		return 0, 0, false
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
	diff := Mean(a) - Mean(b)
	return diff - t*se, diff + t*se, true
}
