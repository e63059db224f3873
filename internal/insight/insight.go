// Package insight derives transient reading aids from computed
// statistics. Insights are recomputed on every request and never
// persisted.
package insight

import (
	"fmt"
	"math"

	domainstats "orion/domain/stats"
)

// Severity buckets an insight for UI styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Thresholds that trip a flag.
const (
	HighCVThreshold       = 30.0
	HighMissingPctThresh  = 20.0
	StrongSkewThreshold   = 1.5
	SkewedGroupBalanceMax = 5.0
)

// Insight is one derived message.
type Insight struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Column   string   `json:"column,omitempty"`
	Message  string   `json:"message"`
}

// FromColumnStats flags dispersion, missingness, and shape issues on a
// set of column summaries.
func FromColumnStats(cols []domainstats.ColumnStats) []Insight {
	var out []Insight
	for _, c := range cols {
		if c.CV != nil && math.Abs(*c.CV) > HighCVThreshold {
			out = append(out, Insight{
				Severity: SeverityWarning,
				Code:     "high_variability",
				Column:   c.Name,
				Message:  fmt.Sprintf("%s is highly variable (CV %.1f%%); the mean may not represent typical values well.", c.Name, *c.CV),
			})
		}
		if c.MissingPct != nil && *c.MissingPct > HighMissingPctThresh {
			out = append(out, Insight{
				Severity: SeverityWarning,
				Code:     "high_missingness",
				Column:   c.Name,
				Message:  fmt.Sprintf("%s is missing %.1f%% of its values; results for this column are based on a reduced sample.", c.Name, *c.MissingPct),
			})
		}
		if c.Skewness != nil && math.Abs(*c.Skewness) > StrongSkewThreshold {
			direction := "right"
			if *c.Skewness < 0 {
				direction = "left"
			}
			out = append(out, Insight{
				Severity: SeverityInfo,
				Code:     "strong_skew",
				Column:   c.Name,
				Message:  fmt.Sprintf("%s is strongly %s-skewed (skewness %.2f); consider the median over the mean.", c.Name, direction, *c.Skewness),
			})
		}
	}
	return out
}

// FromComparison turns a test verdict into a headline insight.
func FromComparison(t domainstats.GroupComparisonTest) []Insight {
	if t.Significant {
		msg := fmt.Sprintf("Groups differ significantly on %s (p=%.4f).", t.VariableName, t.PValue)
		if t.EffectSizeLabel != "" {
			msg += fmt.Sprintf(" The effect is %s.", t.EffectSizeLabel)
		}
		return []Insight{{Severity: SeveritySuccess, Code: "significant_difference", Column: t.VariableName, Message: msg}}
	}
	return []Insight{{
		Severity: SeverityInfo,
		Code:     "no_difference",
		Column:   t.VariableName,
		Message:  fmt.Sprintf("No significant group difference on %s (p=%.4f).", t.VariableName, t.PValue),
	}}
}

// FromCorrelation surfaces the notable pairs.
func FromCorrelation(m domainstats.CorrelationMatrix) []Insight {
	var out []Insight
	for _, p := range m.StrongPairs {
		direction := "positively"
		if p.Coefficient < 0 {
			direction = "negatively"
		}
		out = append(out, Insight{
			Severity: SeverityInfo,
			Code:     "strong_correlation",
			Message:  fmt.Sprintf("%s and %s are %s %s correlated (r=%.2f).", p.VarA, p.VarB, p.Strength, direction, p.Coefficient),
		})
	}
	for _, name := range m.Dropped {
		out = append(out, Insight{
			Severity: SeverityInfo,
			Code:     "no_variation",
			Column:   name,
			Message:  fmt.Sprintf("%s has no variation and was excluded from the correlation matrix.", name),
		})
	}
	return out
}

// FromGroupBalance warns when group sizes are lopsided enough to make
// comparisons shaky.
func FromGroupBalance(summaries []domainstats.GroupSummary) []Insight {
	if len(summaries) < 2 {
		return nil
	}
	minN, maxN := summaries[0].SampleSize, summaries[0].SampleSize
	for _, s := range summaries[1:] {
		if s.SampleSize < minN {
			minN = s.SampleSize
		}
		if s.SampleSize > maxN {
			maxN = s.SampleSize
		}
	}
	if minN > 0 && float64(maxN)/float64(minN) > SkewedGroupBalanceMax {
		return []Insight{{
			Severity: SeverityWarning,
			Code:     "unbalanced_groups",
			Message: fmt.Sprintf("Group sizes are unbalanced (largest %d vs smallest %d); comparisons may favor the bigger groups.",
				maxN, minN),
		}}
	}
	return nil
}
