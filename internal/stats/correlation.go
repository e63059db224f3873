package stats

import (
	"fmt"
	"math"

	"orion/domain/core"
	domainstats "orion/domain/stats"

	"gonum.org/v1/gonum/stat"
)

// CorrelationColumn is one variable's values aligned by row; nil marks
// a missing observation.
type CorrelationColumn struct {
	ColKey core.ColumnKey
	Name   string
	Values []*float64
}

// PearsonMatrix computes pairwise-complete Pearson correlations.
// Columns with zero variance (over their non-missing values) are
// dropped from the matrix and reported in Dropped. Cells with fewer
// than 3 complete pairs are nil.
func PearsonMatrix(cols []CorrelationColumn) (domainstats.CorrelationMatrix, error) {
	kept := make([]CorrelationColumn, 0, len(cols))
	var dropped []string
	for _, c := range cols {
		var vals []float64
		for _, v := range c.Values {
			if v != nil && Finite(*v) {
				vals = append(vals, *v)
			}
		}
		if len(vals) < 3 || Variance(vals) == 0 {
			dropped = append(dropped, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) < 2 {
		return domainstats.CorrelationMatrix{}, fmt.Errorf("correlation: need at least 2 numeric columns with variation, have %d", len(kept))
	}

	k := len(kept)
	out := domainstats.CorrelationMatrix{
		Variables:     make([]core.ColumnKey, k),
		VariableNames: make([]string, k),
		Matrix:        make([][]*float64, k),
		SampleSizes:   make([][]int, k),
		Dropped:       dropped,
	}
	for i, c := range kept {
		out.Variables[i] = c.ColKey
		out.VariableNames[i] = c.Name
		out.Matrix[i] = make([]*float64, k)
		out.SampleSizes[i] = make([]int, k)
	}

	for i := 0; i < k; i++ {
		one := 1.0
		out.Matrix[i][i] = &one
		var n int
		for _, v := range kept[i].Values {
			if v != nil && Finite(*v) {
				n++
			}
		}
		out.SampleSizes[i][i] = n

		for j := i + 1; j < k; j++ {
			r, n := pairwisePearson(kept[i].Values, kept[j].Values)
			out.SampleSizes[i][j] = n
			out.SampleSizes[j][i] = n
			if r != nil {
				rounded := Round(*r, 2)
				out.Matrix[i][j] = &rounded
				out.Matrix[j][i] = &rounded
				if abs := math.Abs(rounded); abs >= 0.5 {
					out.StrongPairs = append(out.StrongPairs, domainstats.CorrelationPair{
						VarA:        kept[i].Name,
						VarB:        kept[j].Name,
						Coefficient: rounded,
						Strength:    correlationStrength(abs),
					})
				}
			}
		}
	}
	return out, nil
}

func pairwisePearson(a, b []*float64) (*float64, int) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var xs, ys []float64
	for i := 0; i < n; i++ {
		if a[i] == nil || b[i] == nil || !Finite(*a[i]) || !Finite(*b[i]) {
			continue
		}
		xs = append(xs, *a[i])
		ys = append(ys, *b[i])
	}
	if len(xs) < 3 || Variance(xs) == 0 || Variance(ys) == 0 {
		return nil, len(xs)
	}
	r := stat.Correlation(xs, ys, nil)
	if !Finite(r) {
		return nil, len(xs)
	}
	return &r, len(xs)
}

func correlationStrength(abs float64) string {
	switch {
	case abs >= 0.8:
		return "very strong"
	case abs >= 0.65:
		return "strong"
	default:
		return "moderate"
	}
}
