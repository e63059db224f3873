package storage

import (
	"context"
	"testing"

	"orion/domain/core"
	"orion/domain/ml"
	"orion/internal/frame"
	"orion/internal/mlkit"
)

func TestFrameStore_RoundTrip(t *testing.T) {
	store, err := NewFrameStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	ctx := context.Background()
	id := core.DatasetID(core.NewID())

	f := &frame.Frame{
		Columns: []string{"name", "score"},
		Rows: [][]any{
			{"ana", 9.5},
			{"bruno", nil},
		},
	}
	if _, err := store.Save(ctx, id, f); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.RowCount() != 2 || len(got.Columns) != 2 {
		t.Errorf("frame shape wrong after reload: %dx%d", got.RowCount(), len(got.Columns))
	}
	if got.Rows[0][1] != 9.5 {
		t.Errorf("numeric cell lost: %v", got.Rows[0][1])
	}
	if got.Rows[1][1] != nil {
		t.Errorf("missing cell should stay nil, got %v", got.Rows[1][1])
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Load(ctx, id); err == nil {
		t.Error("load after delete should fail")
	}
}

func TestFrameStore_LoadMissing(t *testing.T) {
	store, _ := NewFrameStore(t.TempDir())
	if _, err := store.Load(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown dataset")
	}
}

func TestModelStore_RoundTrip(t *testing.T) {
	store, err := NewModelStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	ctx := context.Background()
	id := core.ModelID(core.NewID())

	ridge := mlkit.NewRidge()
	if err := ridge.Fit([][]float64{{1}, {2}, {3}, {4}}, []float64{2, 4, 6, 8}); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	enc := &mlkit.Encoder{
		Columns:           []mlkit.EncodedColumn{{Key: "x", Name: "x", Mean: 2.5, Std: 1}},
		CategoricalValues: map[string][]string{},
	}
	meta := ml.ArtifactMetadata{
		DatasetID:       "ds1",
		Target:          "y",
		BestLabel:       mlkit.LabelDelta,
		SelectionMetric: ml.MetricRMSE,
	}

	if err := store.Save(ctx, id, enc, map[string]mlkit.Model{mlkit.LabelDelta: ridge}, meta); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	model, gotEnc, err := store.LoadModel(ctx, id, mlkit.LabelDelta)
	if err != nil {
		t.Fatalf("load model failed: %v", err)
	}
	if got := model.Predict([]float64{5}); got < 9 || got > 11 {
		t.Errorf("restored ridge should predict ~10 at x=5, got %f", got)
	}
	if gotEnc.Columns[0].Mean != 2.5 {
		t.Errorf("encoder not restored: %+v", gotEnc.Columns)
	}

	gotMeta, err := store.LoadMetadata(ctx, id)
	if err != nil {
		t.Fatalf("load metadata failed: %v", err)
	}
	if gotMeta.BestLabel != mlkit.LabelDelta || gotMeta.Target != "y" {
		t.Errorf("metadata wrong after reload: %+v", gotMeta)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.LoadMetadata(ctx, id); err == nil {
		t.Error("metadata load after delete should fail")
	}
}
