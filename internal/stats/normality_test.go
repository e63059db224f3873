package stats

import (
	"math"
	"testing"
)

// roughly normal: symmetric values concentrated around the center
func nearNormalSample(n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		u := (float64(i) + 0.5) / float64(n)
		// inverse CDF of the standard normal via the probit approximation
		out = append(out, probit(u))
	}
	return out
}

func probit(p float64) float64 {
	// Beasley-Springer-Moro style central approximation, good enough
	// for generating test fixtures
	q := p - 0.5
	if math.Abs(q) <= 0.425 {
		r := 0.180625 - q*q
		return q * (2.506628 + r*30.66665) / (1 + r*10.0)
	}
	r := math.Sqrt(-math.Log(math.Min(p, 1-p)))
	v := (2.3212128 + r*4.8501413) / (1 + r*1.6763848)
	if q < 0 {
		return -v
	}
	return v
}

func heavySkewSample(n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		u := (float64(i) + 0.5) / float64(n)
		out = append(out, -math.Log(1-u)) // exponential quantiles
	}
	return out
}

func TestDAgostinoK2_RejectsHeavySkew(t *testing.T) {
	out := DAgostinoK2(heavySkewSample(100))
	if out.PValue >= 0.05 {
		t.Errorf("exponential sample should fail the omnibus test, p=%f", out.PValue)
	}
}

func TestDAgostinoK2_PValueBounds(t *testing.T) {
	out := DAgostinoK2(nearNormalSample(100))
	if out.PValue < 0 || out.PValue > 1 {
		t.Errorf("p-value out of range: %f", out.PValue)
	}
	if !Finite(out.Statistic) {
		t.Errorf("statistic should be finite, got %f", out.Statistic)
	}
}

func TestKolmogorovSmirnov_ConstantSample(t *testing.T) {
	out := KolmogorovSmirnovNormal([]float64{5, 5, 5, 5, 5})
	if out.PValue != 0 {
		t.Errorf("constant sample should get p=0, got %f", out.PValue)
	}
}

func TestIsNormal_SmallSampleHeuristic(t *testing.T) {
	if !IsNormal([]float64{1, 2, 3, 4, 5}, 0.05) {
		t.Error("symmetric small sample should pass the heuristic")
	}
	if IsNormal([]float64{1, 1, 1, 1, 1, 50}, 0.05) {
		t.Error("heavily skewed small sample should fail the heuristic")
	}
}

func TestCheckNormality_Assembly(t *testing.T) {
	res := CheckNormality("height", "Height", nearNormalSample(80), 0.05)
	if res.N != 80 {
		t.Errorf("n should be 80, got %d", res.N)
	}
	if len(res.Tests) != 2 {
		t.Fatalf("expected 2 tests (K2 and KS), got %d", len(res.Tests))
	}
	if res.Interpretation == "" {
		t.Error("interpretation should not be empty")
	}
	for _, d := range res.Tests {
		if d.PValue < 0 || d.PValue > 1 {
			t.Errorf("%s p-value out of range: %f", d.TestName, d.PValue)
		}
	}
}

func TestCheckNormality_TooFewObservations(t *testing.T) {
	res := CheckNormality("x", "x", []float64{1, 2}, 0.05)
	if len(res.Tests) != 0 || res.OverallNormal {
		t.Errorf("two observations should run no tests, got %+v", res)
	}
}
