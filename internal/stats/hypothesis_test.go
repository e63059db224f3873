package stats

import (
	"testing"
)

func TestRunHypothesisTest_OneSampleT(t *testing.T) {
	res, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestOneSampleT,
		Groups:   []GroupSamples{{Label: "sample", Values: []float64{5.1, 4.9, 5.0, 5.2, 4.8, 5.05, 4.95, 5.1}}},
		Mu:       10,
		Alpha:    0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Significant {
		t.Errorf("sample centered at 5 vs mu=10 should be significant, p=%f", res.PValue)
	}
	if res.Decision != "reject_null" {
		t.Errorf("expected reject_null, got %s", res.Decision)
	}
	if res.CILower == nil || res.CIUpper == nil {
		t.Fatal("one-sample t should report a confidence interval")
	}
	if *res.CILower > 5 || *res.CIUpper < 5 {
		t.Errorf("CI [%f, %f] should bracket the sample mean", *res.CILower, *res.CIUpper)
	}
}

func TestRunHypothesisTest_IndependentTReportsCI(t *testing.T) {
	res, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestIndependentT,
		Groups: []GroupSamples{
			{Label: "a", Values: []float64{1, 2, 3, 4, 5}},
			{Label: "b", Values: []float64{6, 7, 8, 9, 10}},
		},
		Alpha: 0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CILower == nil || res.CIUpper == nil {
		t.Fatal("independent t should report a CI for the mean difference")
	}
	// mean difference is -5
	if *res.CILower > -5 || *res.CIUpper < -5 {
		t.Errorf("CI [%f, %f] should bracket the mean difference -5", *res.CILower, *res.CIUpper)
	}
	if res.EffectSizeName != "cohens_d" {
		t.Errorf("expected cohens_d, got %s", res.EffectSizeName)
	}
}

func TestRunHypothesisTest_PairedLengthMismatch(t *testing.T) {
	_, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestPairedT,
		Groups: []GroupSamples{
			{Label: "before", Values: []float64{1, 2, 3}},
			{Label: "after", Values: []float64{1, 2}},
		},
	})
	if err == nil {
		t.Error("expected error for mismatched paired samples")
	}
}

func TestRunHypothesisTest_ANOVA(t *testing.T) {
	res, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestOneWayANOVA,
		Groups: []GroupSamples{
			{Label: "a", Values: []float64{1, 2, 3, 2, 1}},
			{Label: "b", Values: []float64{10, 11, 12, 11, 10}},
			{Label: "c", Values: []float64{20, 21, 22, 21, 20}},
		},
		Alpha: 0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Significant {
		t.Errorf("well-separated groups should be significant, p=%f", res.PValue)
	}
	if res.EffectSizeName != "eta_squared" {
		t.Errorf("expected eta_squared, got %s", res.EffectSizeName)
	}
	if len(res.GroupsSummary) != 3 {
		t.Errorf("expected 3 group summaries, got %d", len(res.GroupsSummary))
	}
}

func TestRunHypothesisTest_UnknownType(t *testing.T) {
	_, err := RunHypothesisTest(HypothesisRequest{TestType: "z_test"})
	if err == nil {
		t.Error("expected error for unknown test type")
	}
}

func TestRunHypothesisTest_Alternatives(t *testing.T) {
	groups := []GroupSamples{{Label: "x", Values: []float64{12, 13, 14, 15, 16}}}

	twoSided, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestOneSampleT, Groups: groups, Mu: 10, Alpha: 0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	greater, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestOneSampleT, Groups: groups, Mu: 10, Alpha: 0.05,
		Alternative: AltGreater,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(greater.PValue, twoSided.PValue/2, 1e-6) {
		t.Errorf("greater tail should halve the p-value: %f vs %f", greater.PValue, twoSided.PValue)
	}

	less, err := RunHypothesisTest(HypothesisRequest{
		TestType: TestOneSampleT, Groups: groups, Mu: 10, Alpha: 0.05,
		Alternative: AltLess,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if less.PValue < 0.9 {
		t.Errorf("testing the wrong tail should give a large p-value, got %f", less.PValue)
	}

	_, err = RunHypothesisTest(HypothesisRequest{
		TestType: TestMannWhitney,
		Groups: []GroupSamples{
			{Label: "a", Values: []float64{1, 2, 3}},
			{Label: "b", Values: []float64{4, 5, 6}},
		},
		Alternative: AltGreater,
	})
	if err == nil {
		t.Error("rank tests should reject one-sided alternatives")
	}
}
