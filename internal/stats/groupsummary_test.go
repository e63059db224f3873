package stats

import (
	"math"
	"testing"
)

func TestSummarizeGroups_QuantileOrdering(t *testing.T) {
	cases := map[string][]float64{
		"uniform":   {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		"skewed":    {1, 1, 1, 2, 3, 50},
		"two":       {3.5, 7.25},
		"single":    {42},
		"repeated":  {5, 5, 5, 5},
		"negatives": {-10, -3, 0, 4, 12},
	}
	metrics, _ := SummarizeGroups(cases, nil)
	if len(metrics) != len(cases) {
		t.Fatalf("expected %d groups, got %d", len(cases), len(metrics))
	}
	for _, m := range metrics {
		if m.Q1 > m.Median || m.Median > m.Q3 {
			t.Errorf("group %s: quantile ordering violated q1=%f median=%f q3=%f", m.Group, m.Q1, m.Median, m.Q3)
		}
		if m.Min > m.Q1 {
			t.Errorf("group %s: min %f > q1 %f", m.Group, m.Min, m.Q1)
		}
		if m.Q3 > m.Max {
			t.Errorf("group %s: q3 %f > max %f", m.Group, m.Q3, m.Max)
		}
	}
}

func TestSummarizeGroups_SingleSample(t *testing.T) {
	metrics, rollup := SummarizeGroups(map[string][]float64{"only": {42}}, nil)
	if len(metrics) != 1 {
		t.Fatalf("expected 1 group, got %d", len(metrics))
	}
	m := metrics[0]
	if m.Variance != 0 || m.Std != 0 || m.SEM != 0 {
		t.Errorf("single sample should have zero dispersion, got var=%f std=%f sem=%f", m.Variance, m.Std, m.SEM)
	}
	if m.Mean != 42 || m.Median != 42 || m.Min != 42 || m.Max != 42 {
		t.Errorf("single sample stats should all equal the sample, got %+v", m)
	}
	if rollup == nil {
		t.Fatal("expected rollup for single group")
	}
	if rollup.Spread != 0 {
		t.Errorf("single group spread should be 0, got %f", rollup.Spread)
	}
	if rollup.BalanceRatio != 1 {
		t.Errorf("single group balance ratio should be 1, got %f", rollup.BalanceRatio)
	}
}

func TestSummarizeGroups_BalanceRatioEqualCounts(t *testing.T) {
	samples := map[string][]float64{
		"a": {1, 2, 3},
		"b": {10, 20, 30},
		"c": {5, 6, 7},
	}
	_, rollup := SummarizeGroups(samples, nil)
	if rollup == nil {
		t.Fatal("expected rollup")
	}
	if rollup.BalanceRatio != 1 {
		t.Errorf("equal counts should give balance ratio 1, got %f", rollup.BalanceRatio)
	}
	if rollup.Best != "b" || rollup.Worst != "a" {
		t.Errorf("unexpected best/worst: %s/%s", rollup.Best, rollup.Worst)
	}
	if rollup.Spread != 20-2 {
		t.Errorf("spread should be best mean - worst mean = 18, got %f", rollup.Spread)
	}
}

func TestSummarizeGroups_SeedWins(t *testing.T) {
	samples := map[string][]float64{"g": {8, 10, 12}}
	seeds := map[string]GroupSeed{"g": {"mean": 42}}
	metrics, _ := SummarizeGroups(samples, seeds)
	if len(metrics) != 1 {
		t.Fatalf("expected 1 group, got %d", len(metrics))
	}
	if metrics[0].Mean != 42 {
		t.Errorf("seeded mean must win over computed value, got %f", metrics[0].Mean)
	}
	// fields absent from the seed keep the computed value
	if metrics[0].Median != 10 {
		t.Errorf("unseeded median should stay computed, got %f", metrics[0].Median)
	}
}

func TestSummarizeGroups_SeedNonFiniteIgnored(t *testing.T) {
	samples := map[string][]float64{"g": {1, 2, 3}}
	seeds := map[string]GroupSeed{"g": {"mean": math.NaN()}}
	metrics, _ := SummarizeGroups(samples, seeds)
	if metrics[0].Mean != 2 {
		t.Errorf("NaN seed must be ignored, got mean=%f", metrics[0].Mean)
	}
}

func TestSummarizeGroups_DropsEmptyGroups(t *testing.T) {
	samples := map[string][]float64{
		"kept":    {1, 2},
		"empty":   {},
		"allNaN":  {math.NaN(), math.Inf(1)},
		"partial": {math.NaN(), 5},
	}
	metrics, _ := SummarizeGroups(samples, nil)
	if len(metrics) != 2 {
		t.Fatalf("expected 2 surviving groups, got %d", len(metrics))
	}
	for _, m := range metrics {
		if m.Group == "empty" || m.Group == "allNaN" {
			t.Errorf("group %s should have been dropped", m.Group)
		}
	}
}

func TestSummarizeGroups_SortedByMeanDesc(t *testing.T) {
	samples := map[string][]float64{
		"low":  {1, 2},
		"mid":  {5, 6},
		"high": {100, 200},
	}
	metrics, _ := SummarizeGroups(samples, nil)
	for i := 1; i < len(metrics); i++ {
		if metrics[i-1].Mean < metrics[i].Mean {
			t.Errorf("not sorted descending by mean at %d: %f < %f", i, metrics[i-1].Mean, metrics[i].Mean)
		}
	}
	if metrics[0].Group != "high" {
		t.Errorf("highest-mean group should sort first, got %s", metrics[0].Group)
	}
}

func TestSummarizeGroups_EmptyInput(t *testing.T) {
	metrics, rollup := SummarizeGroups(nil, nil)
	if metrics != nil || rollup != nil {
		t.Errorf("empty input should produce no groups and no rollup, got %v %v", metrics, rollup)
	}
}

func TestSummarizeGroups_CIUsesNormalApproximation(t *testing.T) {
	samples := map[string][]float64{"g": {2, 4, 6, 8}}
	metrics, _ := SummarizeGroups(samples, nil)
	m := metrics[0]
	wantLo := m.Mean - 1.96*m.SEM
	wantHi := m.Mean + 1.96*m.SEM
	if math.Abs(m.CILower-wantLo) > 1e-12 || math.Abs(m.CIUpper-wantHi) > 1e-12 {
		t.Errorf("CI should be mean +/- 1.96*sem, got [%f, %f] want [%f, %f]", m.CILower, m.CIUpper, wantLo, wantHi)
	}
}
