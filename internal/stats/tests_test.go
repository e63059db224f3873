package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestOneSampleT_MeanEqualsMu(t *testing.T) {
	out := OneSampleT([]float64{1, 2, 3, 4, 5}, 3)
	if out.Statistic != 0 {
		t.Errorf("t should be 0 when mean equals mu, got %f", out.Statistic)
	}
	if !almostEqual(out.PValue, 1, 1e-9) {
		t.Errorf("p should be 1 when mean equals mu, got %f", out.PValue)
	}
}

func TestStudentT_KnownValue(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}
	out := StudentT(a, b)
	// means differ by 1, pooled var 2.5, se = 1, df = 8
	if !almostEqual(out.Statistic, -1, 1e-9) {
		t.Errorf("expected t=-1, got %f", out.Statistic)
	}
	if out.DF != 8 {
		t.Errorf("expected df=8, got %f", out.DF)
	}
	if !almostEqual(out.PValue, 0.3466, 1e-3) {
		t.Errorf("expected p~0.3466, got %f", out.PValue)
	}
}

func TestWelchT_EqualVariancesMatchesStudent(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}
	welch := WelchT(a, b)
	student := StudentT(a, b)
	if !almostEqual(welch.Statistic, student.Statistic, 1e-9) {
		t.Errorf("equal variances: Welch t %f should match pooled t %f", welch.Statistic, student.Statistic)
	}
	if !almostEqual(welch.DF, 8, 1e-9) {
		t.Errorf("expected Welch df=8 for equal samples, got %f", welch.DF)
	}
}

func TestPairedT_IdenticalSamples(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	out := PairedT(a, a)
	if out.PValue != 1 {
		t.Errorf("identical paired samples should give p=1, got %f", out.PValue)
	}
}

func TestMannWhitneyU_CompleteSeparation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 11, 12, 13, 14}
	out := MannWhitneyU(a, b)
	if out.Statistic != 0 {
		t.Errorf("complete separation should give U=0 for the low sample, got %f", out.Statistic)
	}
	if out.PValue >= 0.05 {
		t.Errorf("complete separation should be significant, got p=%f", out.PValue)
	}
}

func TestWilcoxon_ShiftedPairs(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = v + 5
	}
	out := WilcoxonSignedRank(a, b)
	if out.Statistic != 0 {
		t.Errorf("uniform shift should give W=0, got %f", out.Statistic)
	}
	if out.PValue >= 0.05 {
		t.Errorf("uniform shift should be significant, got p=%f", out.PValue)
	}
}

func TestOneWayANOVA_SeparatedGroups(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3, 2, 1},
		{10, 11, 12, 11, 10},
		{20, 21, 22, 21, 20},
	}
	out, etaSq := OneWayANOVA(groups)
	if out.PValue >= 0.001 {
		t.Errorf("well-separated groups should be highly significant, got p=%f", out.PValue)
	}
	if etaSq < 0.9 {
		t.Errorf("nearly all variance is between groups, eta squared should be high, got %f", etaSq)
	}
}

func TestOneWayANOVA_IdenticalGroups(t *testing.T) {
	g := []float64{1, 2, 3, 4}
	out, etaSq := OneWayANOVA([][]float64{g, g, g})
	if !almostEqual(out.Statistic, 0, 1e-9) {
		t.Errorf("identical groups should give F=0, got %f", out.Statistic)
	}
	if etaSq != 0 {
		t.Errorf("identical groups should give eta squared 0, got %f", etaSq)
	}
}

func TestKruskalWallis_SeparatedGroups(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3, 4, 5},
		{11, 12, 13, 14, 15},
		{21, 22, 23, 24, 25},
	}
	out := KruskalWallis(groups)
	if out.PValue >= 0.01 {
		t.Errorf("well-separated groups should be significant, got p=%f", out.PValue)
	}
	if out.DF != 2 {
		t.Errorf("expected df=2, got %f", out.DF)
	}
}

func TestLevene_UnequalVariances(t *testing.T) {
	tight := []float64{10, 10.1, 9.9, 10.05, 9.95, 10.02, 9.98, 10.01}
	wide := []float64{0, 20, -10, 30, 5, 15, -5, 25}
	out := Levene([][]float64{tight, wide})
	if out.PValue >= 0.05 {
		t.Errorf("clearly unequal spreads should fail Levene, got p=%f", out.PValue)
	}
}

func TestCohensD_Bands(t *testing.T) {
	cases := []struct {
		d    float64
		want string
	}{
		{0.1, "negligible"},
		{-0.3, "small"},
		{0.6, "medium"},
		{-1.2, "large"},
	}
	for _, c := range cases {
		if got := InterpretCohensD(c.d); got != c.want {
			t.Errorf("InterpretCohensD(%f) = %s, want %s", c.d, got, c.want)
		}
	}
}

func TestEtaSquared_Bands(t *testing.T) {
	cases := []struct {
		e    float64
		want string
	}{
		{0.005, "negligible"},
		{0.03, "small"},
		{0.1, "medium"},
		{0.3, "large"},
	}
	for _, c := range cases {
		if got := InterpretEtaSquared(c.e); got != c.want {
			t.Errorf("InterpretEtaSquared(%f) = %s, want %s", c.e, got, c.want)
		}
	}
}

func TestRanks_TieHandling(t *testing.T) {
	r, tieTerm := ranks([]float64{1, 2, 2, 3})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if r[i] != want[i] {
			t.Errorf("rank[%d] = %f, want %f", i, r[i], want[i])
		}
	}
	// one tie of size 2: 2^3 - 2 = 6
	if tieTerm != 6 {
		t.Errorf("tie term = %f, want 6", tieTerm)
	}
}
