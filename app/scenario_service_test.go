package app

import (
	"context"
	"testing"

	"orion/domain/core"
	"orion/domain/dataset"
	"orion/domain/scenario"
	apperrors "orion/internal/errors"
)

type memScenarioRepo struct {
	items map[core.ScenarioID]*scenario.Scenario
}

func newMemScenarioRepo() *memScenarioRepo {
	return &memScenarioRepo{items: make(map[core.ScenarioID]*scenario.Scenario)}
}

func (r *memScenarioRepo) Create(_ context.Context, s *scenario.Scenario) error {
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *memScenarioRepo) GetByID(_ context.Context, id core.ScenarioID) (*scenario.Scenario, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("scenario")
	}
	cp := *s
	return &cp, nil
}

func (r *memScenarioRepo) ListByDataset(_ context.Context, _ core.DatasetID) ([]*scenario.Scenario, error) {
	return nil, nil
}

func (r *memScenarioRepo) List(_ context.Context, _, _ int) ([]*scenario.Scenario, error) {
	return nil, nil
}

func (r *memScenarioRepo) Update(_ context.Context, s *scenario.Scenario) error {
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *memScenarioRepo) Delete(_ context.Context, id core.ScenarioID) error {
	delete(r.items, id)
	return nil
}

type memDatasetRepo struct {
	items map[core.DatasetID]*dataset.Dataset
}

func (r *memDatasetRepo) Create(_ context.Context, ds *dataset.Dataset) error {
	r.items[ds.ID] = ds
	return nil
}

func (r *memDatasetRepo) GetByID(_ context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	ds, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("dataset")
	}
	return ds, nil
}

func (r *memDatasetRepo) List(_ context.Context, _, _ int) ([]*dataset.Dataset, error) {
	return nil, nil
}

func (r *memDatasetRepo) UpdateName(_ context.Context, _ core.DatasetID, _ string) error { return nil }

func (r *memDatasetRepo) UpdateColumns(_ context.Context, _ core.DatasetID, _ []dataset.ColumnMeta) error {
	return nil
}

func (r *memDatasetRepo) Delete(_ context.Context, _ core.DatasetID) error { return nil }

func (r *memDatasetRepo) Count(_ context.Context) (int, error) { return len(r.items), nil }

func newScenarioFixture(t *testing.T) (*ScenarioService, core.DatasetID) {
	t.Helper()
	dsID := core.DatasetID(core.NewID())
	datasets := &memDatasetRepo{items: map[core.DatasetID]*dataset.Dataset{
		dsID: {ID: dsID, Name: "sales"},
	}}
	return NewScenarioService(newMemScenarioRepo(), datasets), dsID
}

func TestScenarioService_ExportImportRoundTrip(t *testing.T) {
	svc, dsID := newScenarioFixture(t)
	ctx := context.Background()

	target := core.ColumnKey("revenue")
	src, err := svc.Create(ctx, ScenarioInput{
		Name:        "Q3 baseline",
		Description: "quarterly review",
		DatasetID:   dsID,
		Payload: scenario.Payload{
			StatsVariables:  []core.ColumnKey{"revenue", "units"},
			Target:          &target,
			Features:        []core.ColumnKey{"units", "region"},
			SelectionMetric: "rmse",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc, filename, err := svc.Export(ctx, src.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if want := "scenario_" + string(src.ID) + ".json"; filename != want {
		t.Errorf("filename = %q, want %q", filename, want)
	}
	if doc.Name != "Q3 baseline" || doc.DatasetID != dsID {
		t.Errorf("document header wrong: %+v", doc)
	}
	if doc.Payload.SelectionMetric != "rmse" || len(doc.Payload.Features) != 2 {
		t.Errorf("payload not carried over: %+v", doc.Payload)
	}

	imported, err := svc.Import(ctx, *doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported.ID == src.ID {
		t.Error("imported scenario should get a fresh ID")
	}
	if imported.Name != src.Name || imported.DatasetID != dsID {
		t.Errorf("imported fields wrong: %+v", imported)
	}
	if imported.Payload.Target == nil || *imported.Payload.Target != target {
		t.Errorf("imported payload target = %v, want %s", imported.Payload.Target, target)
	}
	if !imported.CreatedAt.After(src.CreatedAt) && !imported.CreatedAt.Equal(src.CreatedAt) {
		t.Errorf("imported CreatedAt %v predates source %v", imported.CreatedAt, src.CreatedAt)
	}
}

func TestScenarioService_ImportDefaultsName(t *testing.T) {
	svc, dsID := newScenarioFixture(t)

	imported, err := svc.Import(context.Background(), ScenarioDocument{
		DatasetID: dsID,
		Payload:   scenario.Payload{SelectionMetric: "r2"},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported.Name != "Imported Scenario" {
		t.Errorf("name = %q, want %q", imported.Name, "Imported Scenario")
	}
}

func TestScenarioService_ImportUnknownDataset(t *testing.T) {
	svc, _ := newScenarioFixture(t)

	_, err := svc.Import(context.Background(), ScenarioDocument{
		Name:      "orphan",
		DatasetID: core.DatasetID(core.NewID()),
	})
	if err == nil {
		t.Fatal("import against a missing dataset should fail")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected a not-found error, got %v", err)
	}
}
