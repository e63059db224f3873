package scenario

import (
	"time"

	"orion/domain/core"
	"orion/domain/dataset"
)

// Payload captures the full analysis state a scenario restores:
// filter selections, variable picks, and the trained model reference.
type Payload struct {
	Filters              []dataset.FilterCondition `json:"filters"`
	StatsVariables       []core.ColumnKey          `json:"stats_variables"`
	StatsGroupBy         []core.ColumnKey          `json:"stats_group_by"`
	CorrelationVariables []core.ColumnKey          `json:"correlation_variables"`
	Target               *core.ColumnKey           `json:"target,omitempty"`
	Features             []core.ColumnKey          `json:"features"`
	SelectionMetric      string                    `json:"selection_metric"`
	TreatMissingAsZero   bool                      `json:"treat_missing_as_zero"`
	BestModelLabel       *string                   `json:"best_model_label,omitempty"`
	ModelID              *core.ModelID             `json:"model_id,omitempty"`
}

// Scenario is a named, persisted analysis state bound to a dataset
type Scenario struct {
	ID          core.ScenarioID `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	DatasetID   core.DatasetID  `json:"dataset_id"`
	Payload     Payload         `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
