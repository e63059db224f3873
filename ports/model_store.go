package ports

import (
	"context"

	"orion/domain/core"
	"orion/domain/ml"
	"orion/internal/mlkit"
)

// ModelStore persists trained model artifacts: the fitted encoder,
// every registry model, and the metadata that ties them back to the
// training run.
type ModelStore interface {
	Save(ctx context.Context, id core.ModelID, enc *mlkit.Encoder, models map[string]mlkit.Model, meta ml.ArtifactMetadata) error
	LoadModel(ctx context.Context, id core.ModelID, label string) (mlkit.Model, *mlkit.Encoder, error)
	LoadMetadata(ctx context.Context, id core.ModelID) (ml.ArtifactMetadata, error)
	Delete(ctx context.Context, id core.ModelID) error
}
