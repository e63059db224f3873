package stats

import (
	"fmt"
	"math"
	"sort"

	domainstats "orion/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// MaxCrosstabLevels caps each axis of a contingency table so a
// high-cardinality column cannot blow the response up.
const MaxCrosstabLevels = 30

// BuildCrosstab tabulates two categorical columns observed row by row
// and attaches the chi-square test of independence with Cramér's V.
// rowVals and colVals must be aligned; rows where either side is empty
// are skipped. Axes with more than MaxCrosstabLevels levels are
// trimmed to the most frequent labels by marginal total.
func BuildCrosstab(rowName, colName string, rowVals, colVals []string) (domainstats.Crosstab, error) {
	if len(rowVals) != len(colVals) {
		return domainstats.Crosstab{}, fmt.Errorf("crosstab: misaligned columns (%d vs %d rows)", len(rowVals), len(colVals))
	}

	rowMarginals := map[string]int{}
	colMarginals := map[string]int{}
	for i := range rowVals {
		if rowVals[i] == "" || colVals[i] == "" {
			continue
		}
		rowMarginals[rowVals[i]]++
		colMarginals[colVals[i]]++
	}
	keepRows := topLevels(rowMarginals, MaxCrosstabLevels)
	keepCols := topLevels(colMarginals, MaxCrosstabLevels)

	type pair struct{ r, c string }
	counts := map[pair]int{}
	rowSet := map[string]struct{}{}
	colSet := map[string]struct{}{}
	total := 0
	for i := range rowVals {
		r, c := rowVals[i], colVals[i]
		if r == "" || c == "" {
			continue
		}
		if _, ok := keepRows[r]; !ok {
			continue
		}
		if _, ok := keepCols[c]; !ok {
			continue
		}
		counts[pair{r, c}]++
		rowSet[r] = struct{}{}
		colSet[c] = struct{}{}
		total++
	}
	if total == 0 {
		return domainstats.Crosstab{}, fmt.Errorf("crosstab: no complete observations for %s x %s", rowName, colName)
	}

	rowLabels := sortedKeys(rowSet)
	colLabels := sortedKeys(colSet)

	ct := domainstats.Crosstab{
		SampleSize:      total,
		RowVariableName: rowName,
		ColVariableName: colName,
		RowLabels:       rowLabels,
		ColLabels:       colLabels,
		GrandTotal:      total,
		RowTotals:       make([]int, len(rowLabels)),
		ColTotals:       make([]int, len(colLabels)),
	}
	ct.Counts = make([][]int, len(rowLabels))
	ct.Percentages = make([][]float64, len(rowLabels))
	for i, r := range rowLabels {
		ct.Counts[i] = make([]int, len(colLabels))
		ct.Percentages[i] = make([]float64, len(colLabels))
		for j, c := range colLabels {
			n := counts[pair{r, c}]
			ct.Counts[i][j] = n
			ct.Percentages[i][j] = Round(float64(n)/float64(total)*100, 2)
			ct.RowTotals[i] += n
			ct.ColTotals[j] += n
		}
	}

	chiSquareInto(&ct)
	return ct, nil
}

// chiSquareInto fills in the independence test. Needs a table of at
// least 2x2 with no zero marginals.
func chiSquareInto(ct *domainstats.Crosstab) {
	r, c := len(ct.RowLabels), len(ct.ColLabels)
	if r < 2 || c < 2 {
		ct.Interpretation = "Association test skipped: the table needs at least two levels on each axis."
		return
	}
	n := float64(ct.GrandTotal)

	var chi2 float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			expected := float64(ct.RowTotals[i]) * float64(ct.ColTotals[j]) / n
			if expected == 0 {
				continue
			}
			d := float64(ct.Counts[i][j]) - expected
			chi2 += d * d / expected
		}
	}
	df := (r - 1) * (c - 1)
	dist := distuv.ChiSquared{K: float64(df)}
	p := dist.Survival(chi2)

	minDim := math.Min(float64(r-1), float64(c-1))
	v := math.Sqrt(chi2 / (n * minDim))

	chi2r := Round(chi2, 4)
	pr := Round(p, 6)
	vr := Round(v, 4)
	ct.ChiSquare = &chi2r
	ct.ChiSquarePValue = &pr
	ct.CramersV = &vr
	ct.DegreesOfFreedom = &df

	strength := "weak"
	switch {
	case v >= 0.5:
		strength = "strong"
	case v >= 0.3:
		strength = "moderate"
	}
	if p < 0.05 {
		ct.Interpretation = fmt.Sprintf("%s and %s are significantly associated (chi-square=%.4f, p=%.4f); the association is %s (V=%.4f).",
			ct.RowVariableName, ct.ColVariableName, chi2r, pr, strength, vr)
	} else {
		ct.Interpretation = fmt.Sprintf("No significant association between %s and %s (chi-square=%.4f, p=%.4f).",
			ct.RowVariableName, ct.ColVariableName, chi2r, pr)
	}
}

// topLevels keeps the max most frequent labels; ties break on label so
// trimming is deterministic.
func topLevels(marginals map[string]int, max int) map[string]struct{} {
	keep := make(map[string]struct{}, len(marginals))
	if len(marginals) <= max {
		for label := range marginals {
			keep[label] = struct{}{}
		}
		return keep
	}

	labels := make([]string, 0, len(marginals))
	for label := range marginals {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if marginals[labels[i]] != marginals[labels[j]] {
			return marginals[labels[i]] > marginals[labels[j]]
		}
		return labels[i] < labels[j]
	})
	for _, label := range labels[:max] {
		keep[label] = struct{}{}
	}
	return keep
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
