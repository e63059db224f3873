package stats

import (
	"fmt"

	"orion/domain/core"
	domainstats "orion/domain/stats"
)

// GroupSamples is one group's label and its numeric observations, kept
// in a slice so the caller controls group order.
type GroupSamples struct {
	Label  string
	Values []float64
}

// CompareGroups picks and runs the appropriate test for a numeric
// variable split across groups. Two groups get a t-test variant or
// Mann-Whitney; three or more get ANOVA or Kruskal-Wallis. The choice
// follows the usual assumption checks: at least half the groups must
// look normal for a parametric test, and Levene decides between the
// pooled and Welch t-tests.
func CompareGroups(variable core.ColumnKey, name string, groups []GroupSamples, alpha float64) (domainstats.GroupComparisonTest, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}

	usable := make([]GroupSamples, 0, len(groups))
	for _, g := range groups {
		if len(g.Values) >= 2 {
			usable = append(usable, g)
		}
	}
	if len(usable) < 2 {
		return domainstats.GroupComparisonTest{}, fmt.Errorf("compare %s: need at least 2 groups with 2+ observations, have %d", name, len(usable))
	}

	arrays := make([][]float64, len(usable))
	moments := make([]domainstats.GroupMoments, len(usable))
	normalCount := 0
	for i, g := range usable {
		arrays[i] = g.Values
		moments[i] = domainstats.GroupMoments{
			Group: g.Label,
			N:     len(g.Values),
			Mean:  Round(Mean(g.Values), 4),
			Std:   Round(StdDev(g.Values), 4),
		}
		if IsNormal(g.Values, alpha) {
			normalCount++
		}
	}

	allNormal := normalCount*2 >= len(usable)
	levene := Levene(arrays)
	equalVar := levene.PValue > alpha

	result := domainstats.GroupComparisonTest{
		Variable:     variable,
		VariableName: name,
		Alpha:        alpha,
		AssumptionsMet: map[string]bool{
			"normality":             allNormal,
			"homogeneous_variances": equalVar,
		},
		GroupsSummary: moments,
	}

	var out TestOutcome
	if len(usable) == 2 {
		switch {
		case allNormal && equalVar:
			result.TestName = "independent_t"
			out = StudentT(arrays[0], arrays[1])
		case allNormal:
			result.TestName = "welch_t"
			out = WelchT(arrays[0], arrays[1])
		default:
			result.TestName = "mann_whitney"
			out = MannWhitneyU(arrays[0], arrays[1])
		}
		d := CohensD(arrays[0], arrays[1])
		result.EffectSize = SafeRound(d, 4)
		result.EffectSizeName = "cohens_d"
		result.EffectSizeLabel = InterpretCohensD(d)
	} else {
		var etaSq float64
		if allNormal && equalVar {
			result.TestName = "one_way_anova"
			out, etaSq = OneWayANOVA(arrays)
		} else {
			result.TestName = "kruskal_wallis"
			out = KruskalWallis(arrays)
			_, etaSq = OneWayANOVA(arrays)
		}
		result.EffectSize = SafeRound(etaSq, 4)
		result.EffectSizeName = "eta_squared"
		result.EffectSizeLabel = InterpretEtaSquared(etaSq)
	}

	result.Statistic = Round(out.Statistic, 4)
	result.PValue = Round(out.PValue, 6)
	result.Significant = out.PValue < alpha
	result.Interpretation = comparisonInterpretation(result, usable)
	return result, nil
}

func comparisonInterpretation(r domainstats.GroupComparisonTest, groups []GroupSamples) string {
	if !r.Significant {
		return fmt.Sprintf("No significant difference in %s across groups (%s, p=%.4f).",
			r.VariableName, r.TestName, r.PValue)
	}
	best, worst := groups[0], groups[0]
	bestMean, worstMean := Mean(groups[0].Values), Mean(groups[0].Values)
	for _, g := range groups[1:] {
		m := Mean(g.Values)
		if m > bestMean {
			bestMean, best = m, g
		}
		if m < worstMean {
			worstMean, worst = m, g
		}
	}
	size := ""
	if r.EffectSizeLabel != "" {
		size = fmt.Sprintf(" Effect size is %s.", r.EffectSizeLabel)
	}
	return fmt.Sprintf("Significant difference in %s across groups (%s, p=%.4f): %q is highest (%.4f), %q is lowest (%.4f).%s",
		r.VariableName, r.TestName, r.PValue, best.Label, bestMean, worst.Label, worstMean, size)
}
