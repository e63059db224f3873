package insight

import (
	"testing"

	domainstats "orion/domain/stats"
)

func fp(v float64) *float64 { return &v }

func codes(ins []Insight) map[string]bool {
	out := map[string]bool{}
	for _, i := range ins {
		out[i.Code] = true
	}
	return out
}

func TestFromColumnStats_Thresholds(t *testing.T) {
	cols := []domainstats.ColumnStats{
		{Name: "price", CV: fp(45), MissingPct: fp(5), Skewness: fp(0.2)},
		{Name: "age", CV: fp(10), MissingPct: fp(35), Skewness: fp(-2.1)},
		{Name: "clean", CV: fp(10), MissingPct: fp(0), Skewness: fp(0.1)},
	}
	ins := FromColumnStats(cols)
	got := codes(ins)
	if !got["high_variability"] {
		t.Error("CV 45 should trip high_variability")
	}
	if !got["high_missingness"] {
		t.Error("35% missing should trip high_missingness")
	}
	if !got["strong_skew"] {
		t.Error("skewness -2.1 should trip strong_skew")
	}
	if len(ins) != 3 {
		t.Errorf("clean column must produce nothing; expected 3 insights, got %d", len(ins))
	}
}

func TestFromColumnStats_BoundaryNotTripped(t *testing.T) {
	cols := []domainstats.ColumnStats{
		{Name: "edge", CV: fp(30), MissingPct: fp(20), Skewness: fp(1.5)},
	}
	if ins := FromColumnStats(cols); len(ins) != 0 {
		t.Errorf("thresholds are strict inequalities, got %+v", ins)
	}
}

func TestFromColumnStats_NilFieldsSkipped(t *testing.T) {
	cols := []domainstats.ColumnStats{{Name: "sparse"}}
	if ins := FromColumnStats(cols); len(ins) != 0 {
		t.Errorf("nil optional fields should not trip anything, got %+v", ins)
	}
}

func TestFromComparison(t *testing.T) {
	sig := FromComparison(domainstats.GroupComparisonTest{
		VariableName: "score", Significant: true, PValue: 0.002, EffectSizeLabel: "large",
	})
	if len(sig) != 1 || sig[0].Code != "significant_difference" || sig[0].Severity != SeveritySuccess {
		t.Errorf("unexpected significant insight: %+v", sig)
	}
	ns := FromComparison(domainstats.GroupComparisonTest{VariableName: "score", PValue: 0.4})
	if len(ns) != 1 || ns[0].Code != "no_difference" {
		t.Errorf("unexpected non-significant insight: %+v", ns)
	}
}

func TestFromGroupBalance(t *testing.T) {
	balanced := []domainstats.GroupSummary{{SampleSize: 50}, {SampleSize: 40}}
	if ins := FromGroupBalance(balanced); len(ins) != 0 {
		t.Errorf("mild imbalance should not warn, got %+v", ins)
	}
	lopsided := []domainstats.GroupSummary{{SampleSize: 100}, {SampleSize: 10}}
	ins := FromGroupBalance(lopsided)
	if len(ins) != 1 || ins[0].Code != "unbalanced_groups" {
		t.Errorf("10:1 ratio should warn, got %+v", ins)
	}
}

func TestFromCorrelation(t *testing.T) {
	m := domainstats.CorrelationMatrix{
		StrongPairs: []domainstats.CorrelationPair{
			{VarA: "height", VarB: "weight", Coefficient: 0.82, Strength: "very strong"},
		},
		Dropped: []string{"constant_col"},
	}
	ins := FromCorrelation(m)
	got := codes(ins)
	if !got["strong_correlation"] || !got["no_variation"] {
		t.Errorf("expected strong_correlation and no_variation, got %+v", ins)
	}
}
