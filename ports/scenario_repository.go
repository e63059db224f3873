package ports

import (
	"context"

	"orion/domain/core"
	"orion/domain/scenario"
)

// ScenarioRepository defines the interface for saved analysis setups
type ScenarioRepository interface {
	Create(ctx context.Context, s *scenario.Scenario) error
	GetByID(ctx context.Context, id core.ScenarioID) (*scenario.Scenario, error)
	ListByDataset(ctx context.Context, datasetID core.DatasetID) ([]*scenario.Scenario, error)
	List(ctx context.Context, limit, offset int) ([]*scenario.Scenario, error)
	Update(ctx context.Context, s *scenario.Scenario) error
	Delete(ctx context.Context, id core.ScenarioID) error
}
