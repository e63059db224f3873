package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"orion/domain/core"
	"orion/domain/ml"
	"orion/internal/mlkit"
	"orion/ports"
)

// modelStore lays each training run out as a directory: metadata.json,
// encoder.json, and one file per fitted model.
type modelStore struct {
	dir string
}

// NewModelStore creates the models directory if needed.
func NewModelStore(dir string) (ports.ModelStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create models dir %s: %w", dir, err)
	}
	return &modelStore{dir: dir}, nil
}

func (s *modelStore) modelDir(id core.ModelID) string {
	return filepath.Join(s.dir, id.String())
}

func safeLabel(label string) string {
	label = strings.ReplaceAll(label, " ", "_")
	return strings.ReplaceAll(label, "-", "_")
}

func (s *modelStore) Save(ctx context.Context, id core.ModelID, enc *mlkit.Encoder, models map[string]mlkit.Model, meta ml.ArtifactMetadata) error {
	dir := s.modelDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "encoder.json"), enc); err != nil {
		return err
	}
	for label, model := range models {
		art, err := mlkit.MarshalModel(label, model)
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", label, err)
		}
		if err := writeJSON(filepath.Join(dir, safeLabel(label)+".json"), art); err != nil {
			return err
		}
	}
	return nil
}

func (s *modelStore) LoadModel(ctx context.Context, id core.ModelID, label string) (mlkit.Model, *mlkit.Encoder, error) {
	dir := s.modelDir(id)

	var art mlkit.ModelArtifact
	if err := readJSON(filepath.Join(dir, safeLabel(label)+".json"), &art); err != nil {
		return nil, nil, fmt.Errorf("model %s/%s not found: %w", id, label, err)
	}
	model, err := mlkit.UnmarshalModel(art)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore %s: %w", label, err)
	}

	var enc mlkit.Encoder
	if err := readJSON(filepath.Join(dir, "encoder.json"), &enc); err != nil {
		return nil, nil, fmt.Errorf("encoder for %s not found: %w", id, err)
	}
	return model, &enc, nil
}

func (s *modelStore) LoadMetadata(ctx context.Context, id core.ModelID) (ml.ArtifactMetadata, error) {
	var meta ml.ArtifactMetadata
	if err := readJSON(filepath.Join(s.modelDir(id), "metadata.json"), &meta); err != nil {
		return meta, fmt.Errorf("model metadata for %s not found: %w", id, err)
	}
	return meta, nil
}

func (s *modelStore) Delete(ctx context.Context, id core.ModelID) error {
	if err := os.RemoveAll(s.modelDir(id)); err != nil {
		return fmt.Errorf("failed to delete model dir: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
