package stats

import (
	"testing"
)

func TestCompareGroups_PicksPooledTTest(t *testing.T) {
	groups := []GroupSamples{
		{Label: "a", Values: []float64{1, 2, 3, 4, 5}},
		{Label: "b", Values: []float64{2, 3, 4, 5, 6}},
	}
	res, err := CompareGroups("score", "Score", groups, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TestName != "independent_t" {
		t.Errorf("symmetric groups with equal spread should use independent_t, got %s", res.TestName)
	}
	if res.EffectSizeName != "cohens_d" {
		t.Errorf("two groups should report cohens_d, got %s", res.EffectSizeName)
	}
	if len(res.GroupsSummary) != 2 {
		t.Errorf("expected 2 group summaries, got %d", len(res.GroupsSummary))
	}
}

func TestCompareGroups_PicksWelchOnUnequalVariance(t *testing.T) {
	groups := []GroupSamples{
		{Label: "tight", Values: []float64{10, 10.1, 9.9, 10.05, 9.95, 10.02, 9.98}},
		{Label: "wide", Values: []float64{0, 20, -10, 30, 5, 15, -5}},
	}
	res, err := CompareGroups("val", "Value", groups, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TestName != "welch_t" {
		t.Errorf("unequal variances should use welch_t, got %s", res.TestName)
	}
	if res.AssumptionsMet["homogeneous_variances"] {
		t.Error("homogeneity assumption should be flagged as not met")
	}
}

func TestCompareGroups_PicksMannWhitneyOnSkew(t *testing.T) {
	groups := []GroupSamples{
		{Label: "a", Values: []float64{1, 1, 1, 1, 1, 50}},
		{Label: "b", Values: []float64{2, 2, 2, 2, 2, 80}},
	}
	res, err := CompareGroups("val", "Value", groups, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TestName != "mann_whitney" {
		t.Errorf("heavily skewed groups should use mann_whitney, got %s", res.TestName)
	}
}

func TestCompareGroups_PicksANOVAForThreeGroups(t *testing.T) {
	groups := []GroupSamples{
		{Label: "a", Values: []float64{1, 2, 3, 4, 5}},
		{Label: "b", Values: []float64{11, 12, 13, 14, 15}},
		{Label: "c", Values: []float64{21, 22, 23, 24, 25}},
	}
	res, err := CompareGroups("val", "Value", groups, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TestName != "one_way_anova" {
		t.Errorf("three clean groups should use one_way_anova, got %s", res.TestName)
	}
	if res.EffectSizeName != "eta_squared" {
		t.Errorf("omnibus test should report eta_squared, got %s", res.EffectSizeName)
	}
	if !res.Significant {
		t.Error("well-separated groups should be significant")
	}
}

func TestCompareGroups_PicksKruskalOnSkew(t *testing.T) {
	groups := []GroupSamples{
		{Label: "a", Values: []float64{1, 1, 1, 1, 1, 60}},
		{Label: "b", Values: []float64{2, 2, 2, 2, 2, 90}},
		{Label: "c", Values: []float64{3, 3, 3, 3, 3, 120}},
	}
	res, err := CompareGroups("val", "Value", groups, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TestName != "kruskal_wallis" {
		t.Errorf("skewed groups should use kruskal_wallis, got %s", res.TestName)
	}
}

func TestCompareGroups_TooFewGroups(t *testing.T) {
	groups := []GroupSamples{
		{Label: "only", Values: []float64{1, 2, 3}},
		{Label: "thin", Values: []float64{9}},
	}
	if _, err := CompareGroups("val", "Value", groups, 0.05); err == nil {
		t.Error("expected error when fewer than 2 groups have enough data")
	}
}
