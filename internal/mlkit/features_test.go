package mlkit

import (
	"math"
	"testing"

	"orion/domain/core"
)

func TestFitEncoder_LevelsAndScaling(t *testing.T) {
	cols := []FeatureColumn{
		{Key: "size", Name: "size", Numeric: []*float64{fp(10), fp(20), fp(30)}},
		{Key: "color", Name: "color", Categorical: true, Labels: []string{"red", "blue", "red"}},
	}
	enc, err := FitEncoder(cols, true)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if enc.Width() != 3 {
		t.Errorf("expected width 3 (1 numeric + 2 levels), got %d", enc.Width())
	}
	names := enc.EncodedNames()
	want := []string{"size", "color=blue", "color=red"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("encoded name %d = %s, want %s", i, names[i], want[i])
		}
	}

	X, err := enc.Transform(cols, 3)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	// standardized numeric column should be mean 0
	var sum float64
	for _, row := range X {
		sum += row[0]
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("scaled column should be centered, sum=%f", sum)
	}
	// row 0 is red
	if X[0][1] != 0 || X[0][2] != 1 {
		t.Errorf("one-hot wrong for red: %v", X[0])
	}
}

func TestEncoder_MissingHandling(t *testing.T) {
	cols := []FeatureColumn{
		{Key: "cat", Name: "cat", Categorical: true, Labels: []string{"x", "", "y"}},
	}
	enc, err := FitEncoder(cols, true)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	levels := enc.CategoricalValues["cat"]
	found := false
	for _, l := range levels {
		if l == MissingLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("missing-as-zero should add a %s level, got %v", MissingLevel, levels)
	}
}

func TestEncoder_UnknownLevelEncodesAsZeros(t *testing.T) {
	cols := []FeatureColumn{
		{Key: "cat", Name: "cat", Categorical: true, Labels: []string{"x", "y"}},
	}
	enc, err := FitEncoder(cols, false)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	row, err := enc.EncodeRow(map[core.ColumnKey]any{"cat": "never-seen"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for i, v := range row {
		if v != 0 {
			t.Errorf("unknown level should encode to zeros, row[%d]=%f", i, v)
		}
	}
}

func TestLinearColumns_DropsFirstLevel(t *testing.T) {
	cols := []FeatureColumn{
		{Key: "n", Name: "n", Numeric: []*float64{fp(1), fp(2)}},
		{Key: "c", Name: "c", Categorical: true, Labels: []string{"a", "b"}},
	}
	enc, err := FitEncoder(cols, false)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	keep, names := enc.LinearColumns()
	// encoded layout: [n, c=a, c=b]; OLS keeps n and c=b
	if len(keep) != 2 || keep[0] != 0 || keep[1] != 2 {
		t.Errorf("unexpected keep indices: %v", keep)
	}
	if names[1] != "c=b" {
		t.Errorf("dropped-first naming wrong: %v", names)
	}
}

func TestMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	if r2 := R2(yTrue, yTrue); r2 != 1 {
		t.Errorf("perfect predictions should give R2=1, got %f", r2)
	}
	if rmse := RMSE(yTrue, []float64{2, 3, 4, 5}); !almostEqualF(rmse, 1) {
		t.Errorf("constant offset 1 should give RMSE=1, got %f", rmse)
	}
	if mae := MAE(yTrue, []float64{2, 1, 4, 3}); !almostEqualF(mae, 1) {
		t.Errorf("expected MAE=1, got %f", mae)
	}
	if mape := MAPE([]float64{0, 0}, []float64{1, 1}); mape != nil {
		t.Errorf("all-zero truth should give nil MAPE, got %v", mape)
	}
}

func almostEqualF(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
