package mlkit

import (
	"context"
	"math"
	"testing"

	"orion/domain/core"
	"orion/domain/ml"
)

func fp(v float64) *float64 { return &v }

// linearFixture builds n rows with y = 3*x1 + 10*[group==b] + 5.
func linearFixture(n int) ([]FeatureColumn, []*float64) {
	x := make([]*float64, n)
	labels := make([]string, n)
	y := make([]*float64, n)
	for i := 0; i < n; i++ {
		xi := float64(i%17) + float64(i)*0.25
		x[i] = fp(xi)
		bump := 0.0
		if i%2 == 0 {
			labels[i] = "a"
		} else {
			labels[i] = "b"
			bump = 10
		}
		y[i] = fp(3*xi + bump + 5)
	}
	cols := []FeatureColumn{
		{Key: "x1", Name: "x1", Numeric: x},
		{Key: "group", Name: "group", Categorical: true, Labels: labels},
	}
	return cols, y
}

func TestTrain_FullRegistry(t *testing.T) {
	cols, y := linearFixture(60)
	trained, err := Train(context.Background(), TrainRequest{
		Features:           cols,
		Target:             y,
		TreatMissingAsZero: true,
		SelectionMetric:    ml.MetricRMSE,
	})
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}
	if len(trained.Result.Models) != len(RegistryLabels) {
		t.Fatalf("expected %d models, got %d", len(RegistryLabels), len(trained.Result.Models))
	}
	if trained.Result.BestModelLabel == "" {
		t.Fatal("best model label must be set")
	}
	bestCount := 0
	for _, m := range trained.Result.Models {
		if m.IsBest {
			bestCount++
			if m.Label != trained.Result.BestModelLabel {
				t.Errorf("is_best flag on %s but best label is %s", m.Label, trained.Result.BestModelLabel)
			}
		}
	}
	if bestCount != 1 {
		t.Errorf("exactly one model must be best, got %d", bestCount)
	}
	if trained.Result.ModelID == "" {
		t.Error("model id must be assigned")
	}
	if got := trained.Result.CategoricalFeatures["group"]; len(got) != 2 {
		t.Errorf("categorical levels should be [a b], got %v", got)
	}

	// the relationship is exactly linear, so the OLS fit should be near perfect
	if trained.Result.LinearRegression.R2 < 0.99 {
		t.Errorf("linear fixture should give OLS R2 ~1, got %f", trained.Result.LinearRegression.R2)
	}
	if len(trained.Result.LinearRegression.Coefficients) != 2 {
		t.Errorf("expected 2 OLS terms (x1, group=b), got %+v", trained.Result.LinearRegression.Coefficients)
	}
}

func TestTrain_Deterministic(t *testing.T) {
	cols, y := linearFixture(50)
	req := TrainRequest{Features: cols, Target: y, TreatMissingAsZero: true}
	a, err := Train(context.Background(), req)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := Train(context.Background(), req)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if a.Result.BestModelLabel != b.Result.BestModelLabel {
		t.Errorf("training must be deterministic: %s vs %s", a.Result.BestModelLabel, b.Result.BestModelLabel)
	}
	for i := range a.Result.Models {
		if a.Result.Models[i].RMSE != b.Result.Models[i].RMSE {
			t.Errorf("model %s RMSE differs across runs: %f vs %f",
				a.Result.Models[i].Label, a.Result.Models[i].RMSE, b.Result.Models[i].RMSE)
		}
	}
}

func TestTrain_TooFewSamples(t *testing.T) {
	cols, y := linearFixture(5)
	if _, err := Train(context.Background(), TrainRequest{Features: cols, Target: y, TreatMissingAsZero: true}); err == nil {
		t.Error("expected error with fewer than 10 samples")
	}
}

func TestTrain_MissingTargetDropped(t *testing.T) {
	cols, y := linearFixture(30)
	y[0] = nil
	y[1] = nil
	trained, err := Train(context.Background(), TrainRequest{Features: cols, Target: y, TreatMissingAsZero: false})
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}
	if trained.Result.BestModelLabel == "" {
		t.Error("training should still succeed after dropping missing-target rows")
	}
}

func TestModelRoundTrip(t *testing.T) {
	cols, y := linearFixture(40)
	trained, err := Train(context.Background(), TrainRequest{Features: cols, Target: y, TreatMissingAsZero: true})
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}
	model := trained.Models[trained.Result.BestModelLabel]
	art, err := MarshalModel(trained.Result.BestModelLabel, model)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored, err := UnmarshalModel(art)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	row, err := trained.Encoder.EncodeRow(map[core.ColumnKey]any{"x1": 7.5, "group": "b"})
	if err != nil {
		t.Fatalf("encode row failed: %v", err)
	}
	want := model.Predict(row)
	got := restored.Predict(row)
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("restored model predicts %f, original %f", got, want)
	}
}
