package project

import (
	"time"

	"orion/domain/core"
)

// Status of an operational project
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Valid reports whether the status is one of the known values
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// InputField describes one entry of the prediction form derived from
// the dataset column metadata at project creation time.
type InputField struct {
	ColKey        core.ColumnKey `json:"col_key"`
	Name          string         `json:"name"`
	VarType       string         `json:"var_type"`
	InputType     string         `json:"input_type"` // "select" or "number"
	Required      bool           `json:"required"`
	DefaultValue  any            `json:"default_value,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
	Description   string         `json:"description,omitempty"`
}

// Project packages a trained model into a reusable prediction form
type Project struct {
	ID           core.ProjectID            `json:"id"`
	Name         string                    `json:"name"`
	Description  string                    `json:"description,omitempty"`
	DatasetID    core.DatasetID            `json:"dataset_id"`
	ModelID      core.ModelID              `json:"model_id"`
	ModelLabel   string                    `json:"model_label"`
	Target       core.ColumnKey            `json:"target"`
	Features     []core.ColumnKey          `json:"features"`
	InputSchema  []InputField              `json:"input_schema"`
	TrainConfig  map[string]any            `json:"train_config,omitempty"`
	ModelMetrics map[string]map[string]any `json:"model_metrics,omitempty"`
	Status       Status                    `json:"status"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Run records one prediction made through a project
type Run struct {
	ID             core.ID        `json:"id"`
	ProjectID      core.ProjectID `json:"project_id"`
	InputValues    map[string]any `json:"input_values"`
	PredictedValue float64        `json:"predicted_value"`
	ModelUsed      string         `json:"model_used"`
	ExpectedError  float64        `json:"expected_error"`
	CreatedAt      time.Time      `json:"created_at"`
}
