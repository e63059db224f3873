package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orion/domain/core"
	"orion/domain/scenario"
	apperrors "orion/internal/errors"
	"orion/ports"
)

// ScenarioService persists named analysis states
type ScenarioService struct {
	repo     ports.ScenarioRepository
	datasets ports.DatasetRepository
}

// NewScenarioService creates a new scenario service
func NewScenarioService(repo ports.ScenarioRepository, datasets ports.DatasetRepository) *ScenarioService {
	return &ScenarioService{repo: repo, datasets: datasets}
}

// ScenarioInput carries the writable fields of a scenario
type ScenarioInput struct {
	Name        string
	Description string
	DatasetID   core.DatasetID
	Payload     scenario.Payload
}

// Create stores a new scenario after checking the dataset exists
func (s *ScenarioService) Create(ctx context.Context, in ScenarioInput) (*scenario.Scenario, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("scenario name must not be empty")
	}
	if _, err := s.datasets.GetByID(ctx, in.DatasetID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sc := &scenario.Scenario{
		ID:          core.ScenarioID(core.NewID()),
		Name:        name,
		Description: in.Description,
		DatasetID:   in.DatasetID,
		Payload:     in.Payload,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Get returns one scenario
func (s *ScenarioService) Get(ctx context.Context, id core.ScenarioID) (*scenario.Scenario, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns scenarios, newest update first
func (s *ScenarioService) List(ctx context.Context, limit, offset int) ([]*scenario.Scenario, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// ListByDataset returns every scenario bound to a dataset
func (s *ScenarioService) ListByDataset(ctx context.Context, datasetID core.DatasetID) ([]*scenario.Scenario, error) {
	return s.repo.ListByDataset(ctx, datasetID)
}

// Update replaces the writable fields of an existing scenario
func (s *ScenarioService) Update(ctx context.Context, id core.ScenarioID, in ScenarioInput) (*scenario.Scenario, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		sc.Name = name
	}
	sc.Description = in.Description
	sc.Payload = in.Payload
	sc.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Duplicate copies a scenario under a new name
func (s *ScenarioService) Duplicate(ctx context.Context, id core.ScenarioID, name string) (*scenario.Scenario, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = src.Name + " (copy)"
	}

	now := time.Now().UTC()
	dup := &scenario.Scenario{
		ID:          core.ScenarioID(core.NewID()),
		Name:        name,
		Description: src.Description,
		DatasetID:   src.DatasetID,
		Payload:     src.Payload,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}

// Delete removes a scenario
func (s *ScenarioService) Delete(ctx context.Context, id core.ScenarioID) error {
	return s.repo.Delete(ctx, id)
}

// ScenarioDocument is the portable JSON form of a scenario. The ID is
// dropped so the file can be imported into another instance.
type ScenarioDocument struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DatasetID   core.DatasetID   `json:"dataset_id"`
	Payload     scenario.Payload `json:"payload"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Export returns the portable form of a scenario plus a download filename
func (s *ScenarioService) Export(ctx context.Context, id core.ScenarioID) (*ScenarioDocument, string, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc := &ScenarioDocument{
		Name:        sc.Name,
		Description: sc.Description,
		DatasetID:   sc.DatasetID,
		Payload:     sc.Payload,
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
	}
	return doc, fmt.Sprintf("scenario_%s.json", sc.ID), nil
}

// Import stores an exported document as a new scenario. The embedded
// timestamps are informational; the copy gets fresh ones.
func (s *ScenarioService) Import(ctx context.Context, doc ScenarioDocument) (*scenario.Scenario, error) {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = "Imported Scenario"
	}
	return s.Create(ctx, ScenarioInput{
		Name:        name,
		Description: doc.Description,
		DatasetID:   doc.DatasetID,
		Payload:     doc.Payload,
	})
}
