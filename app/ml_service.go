package app

import (
	"context"
	"fmt"

	"orion/domain/core"
	"orion/domain/dataset"
	"orion/domain/ml"
	internal "orion/internal"
	apperrors "orion/internal/errors"
	"orion/internal/frame"
	"orion/internal/mlkit"
	"orion/ports"
)

// MLService trains the model registry over stored frames and serves
// predictions from persisted artifacts.
type MLService struct {
	datasets *DatasetService
	loader   *FrameLoader
	store    ports.ModelStore
	logger   *internal.Logger
}

// NewMLService creates a new ML service
func NewMLService(datasets *DatasetService, loader *FrameLoader, store ports.ModelStore, logger *internal.Logger) *MLService {
	return &MLService{datasets: datasets, loader: loader, store: store, logger: logger}
}

// TrainInput names the target and features of a training run
type TrainInput struct {
	DatasetID          core.DatasetID
	Target             core.ColumnKey
	Features           []core.ColumnKey
	SelectionMetric    string
	TreatMissingAsZero bool
	Filters            []dataset.FilterCondition
}

// Train materializes the feature columns, runs the registry, and
// persists the winning artifacts.
func (s *MLService) Train(ctx context.Context, in TrainInput) (*ml.TrainResult, error) {
	ds, err := s.datasets.Get(ctx, in.DatasetID)
	if err != nil {
		return nil, err
	}
	f, err := s.loader.Load(ctx, in.DatasetID)
	if err != nil {
		return nil, err
	}
	f = f.ApplyFilters(in.Filters)

	targetMeta, ok := ds.ColumnByKey(in.Target)
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", in.Target))
	}
	if targetMeta.DType != "float64" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("target %q must be numeric", in.Target))
	}
	if len(in.Features) == 0 {
		return nil, apperrors.InvalidInput("training needs at least one feature")
	}

	features, err := buildFeatureColumns(ds, f, in.Features, in.Target)
	if err != nil {
		return nil, err
	}

	trained, err := mlkit.Train(ctx, mlkit.TrainRequest{
		Features:           features,
		Target:             alignedValues(f, in.Target),
		TreatMissingAsZero: in.TreatMissingAsZero,
		SelectionMetric:    in.SelectionMetric,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "training failed")
	}

	meta := ml.ArtifactMetadata{
		DatasetID:           in.DatasetID,
		Target:              in.Target,
		Features:            in.Features,
		FeatureNames:        trained.Result.FeatureNames,
		CategoricalFeatures: trained.Result.CategoricalFeatures,
		BestLabel:           trained.Result.BestModelLabel,
		SelectionMetric:     in.SelectionMetric,
		ModelMetrics:        metricsByLabel(trained.Result.Models),
	}
	if err := s.store.Save(ctx, trained.Result.ModelID, trained.Encoder, trained.Models, meta); err != nil {
		return nil, apperrors.Wrap(err, "failed to persist model artifacts")
	}

	s.logger.Info("[ml] trained %s on %s: best %s", trained.Result.ModelID, in.DatasetID, trained.Result.BestModelLabel)
	return &trained.Result, nil
}

// PredictInput selects a stored model and supplies the feature values.
// An empty Label means the best model from the training run.
type PredictInput struct {
	ModelID     core.ModelID
	Label       string
	InputValues map[core.ColumnKey]any
}

// Predict builds a feature vector through the stored encoder and runs
// the requested model.
func (s *MLService) Predict(ctx context.Context, in PredictInput) (*ml.Prediction, error) {
	meta, err := s.store.LoadMetadata(ctx, in.ModelID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load model metadata")
	}

	label := in.Label
	if label == "" {
		label = meta.BestLabel
	}
	metrics, ok := meta.ModelMetrics[label]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("model %q in artifact %s", label, in.ModelID))
	}

	model, enc, err := s.store.LoadModel(ctx, in.ModelID, label)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load model artifact")
	}

	row, err := enc.EncodeRow(in.InputValues)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	return &ml.Prediction{
		PredictedValue: model.Predict(row),
		ModelUsed:      label,
		ExpectedError:  metrics.RMSE,
	}, nil
}

// Metadata returns the stored training context of a model artifact
func (s *MLService) Metadata(ctx context.Context, id core.ModelID) (ml.ArtifactMetadata, error) {
	return s.store.LoadMetadata(ctx, id)
}

// buildFeatureColumns materializes raw feature columns from the frame.
// Categorical metadata decides the encoding path; the target cannot be
// among the features.
func buildFeatureColumns(ds *dataset.Dataset, f *frame.Frame, keys []core.ColumnKey, target core.ColumnKey) ([]mlkit.FeatureColumn, error) {
	out := make([]mlkit.FeatureColumn, 0, len(keys))
	for _, key := range keys {
		if key == target {
			return nil, apperrors.InvalidInput(fmt.Sprintf("target %q cannot be a feature", key))
		}
		meta, ok := ds.ColumnByKey(key)
		if !ok || !f.HasColumn(key) {
			return nil, apperrors.NotFound(fmt.Sprintf("column %s", key))
		}

		col := mlkit.FeatureColumn{Key: key, Name: meta.Name}
		if meta.VarType == dataset.VarCategorical {
			col.Categorical = true
			col.Labels = alignedLabels(f, key)
		} else {
			col.Numeric = alignedValues(f, key)
		}
		out = append(out, col)
	}
	return out, nil
}

func metricsByLabel(models []ml.ModelMetrics) map[string]ml.ModelMetrics {
	out := make(map[string]ml.ModelMetrics, len(models))
	for _, m := range models {
		out[m.Label] = m
	}
	return out
}
