package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DatasetID  ID
	ModelID    ID
	ScenarioID ID
	ProjectID  ID
)

func (id DatasetID) String() string  { return ID(id).String() }
func (id ModelID) String() string    { return ID(id).String() }
func (id ScenarioID) String() string { return ID(id).String() }
func (id ProjectID) String() string  { return ID(id).String() }

// ColumnKey is the sanitized identifier of a dataset column
type ColumnKey string

func (k ColumnKey) String() string { return string(k) }

// ParseDatasetID parses a string into DatasetID
func ParseDatasetID(s string) (DatasetID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("dataset ID cannot be empty")
	}
	return DatasetID(s), nil
}

// ParseModelID parses a string into ModelID
func ParseModelID(s string) (ModelID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("model ID cannot be empty")
	}
	return ModelID(s), nil
}

// ParseScenarioID parses a string into ScenarioID
func ParseScenarioID(s string) (ScenarioID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("scenario ID cannot be empty")
	}
	return ScenarioID(s), nil
}

// ParseProjectID parses a string into ProjectID
func ParseProjectID(s string) (ProjectID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("project ID cannot be empty")
	}
	return ProjectID(s), nil
}
