package stats

import (
	"math"
	"testing"
)

func floatPtrs(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		v := vals[i]
		out[i] = &v
	}
	return out
}

func TestPearsonMatrix_PerfectCorrelation(t *testing.T) {
	a := floatPtrs(1, 2, 3, 4, 5, 6)
	b := floatPtrs(2, 4, 6, 8, 10, 12)
	m, err := PearsonMatrix([]CorrelationColumn{
		{ColKey: "a", Name: "A", Values: a},
		{ColKey: "b", Name: "B", Values: b},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Matrix[0][1] == nil || !almostEqual(*m.Matrix[0][1], 1, 1e-9) {
		t.Errorf("B = 2A should give r=1, got %v", m.Matrix[0][1])
	}
	if m.Matrix[0][0] == nil || *m.Matrix[0][0] != 1 {
		t.Errorf("diagonal should be 1, got %v", m.Matrix[0][0])
	}
	if len(m.StrongPairs) != 1 || m.StrongPairs[0].Strength != "very strong" {
		t.Errorf("expected one very strong pair, got %+v", m.StrongPairs)
	}
}

func TestPearsonMatrix_DropsZeroVariance(t *testing.T) {
	a := floatPtrs(1, 2, 3, 4, 5)
	b := floatPtrs(5, 4, 3, 2, 1)
	constant := floatPtrs(7, 7, 7, 7, 7)
	m, err := PearsonMatrix([]CorrelationColumn{
		{ColKey: "a", Name: "A", Values: a},
		{ColKey: "c", Name: "Constant", Values: constant},
		{ColKey: "b", Name: "B", Values: b},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Variables) != 2 {
		t.Errorf("constant column should be dropped, kept %d", len(m.Variables))
	}
	if len(m.Dropped) != 1 || m.Dropped[0] != "Constant" {
		t.Errorf("dropped list wrong: %v", m.Dropped)
	}
	if m.Matrix[0][1] == nil || !almostEqual(*m.Matrix[0][1], -1, 1e-9) {
		t.Errorf("reversed column should give r=-1, got %v", m.Matrix[0][1])
	}
}

func TestPearsonMatrix_PairwiseMissing(t *testing.T) {
	a := []*float64{fp(1), fp(2), nil, fp(4), fp(5), fp(6)}
	b := []*float64{fp(2), nil, fp(6), fp(8), fp(10), fp(12)}
	m, err := PearsonMatrix([]CorrelationColumn{
		{ColKey: "a", Name: "A", Values: a},
		{ColKey: "b", Name: "B", Values: b},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// rows 0, 3, 4, 5 are complete
	if m.SampleSizes[0][1] != 4 {
		t.Errorf("pairwise n should be 4, got %d", m.SampleSizes[0][1])
	}
	if m.Matrix[0][1] == nil || !almostEqual(*m.Matrix[0][1], 1, 1e-9) {
		t.Errorf("complete pairs are still perfectly correlated, got %v", m.Matrix[0][1])
	}
}

func TestPearsonMatrix_TooFewColumns(t *testing.T) {
	if _, err := PearsonMatrix([]CorrelationColumn{{ColKey: "a", Name: "A", Values: floatPtrs(1, 2, 3)}}); err == nil {
		t.Error("expected error with fewer than 2 usable columns")
	}
}

func fp(v float64) *float64 { return &v }

func TestPearsonMatrix_NonFiniteTreatedAsMissing(t *testing.T) {
	a := []*float64{fp(1), fp(math.NaN()), fp(3), fp(4), fp(5)}
	b := []*float64{fp(2), fp(4), fp(6), fp(8), fp(10)}
	m, err := PearsonMatrix([]CorrelationColumn{
		{ColKey: "a", Name: "A", Values: a},
		{ColKey: "b", Name: "B", Values: b},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SampleSizes[0][1] != 4 {
		t.Errorf("NaN cell should shrink pairwise n to 4, got %d", m.SampleSizes[0][1])
	}
}
