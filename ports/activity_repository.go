package ports

import (
	"context"

	"orion/domain/activity"
	"orion/domain/core"
)

// ActivityRepository defines the interface for the audit trail
type ActivityRepository interface {
	Record(ctx context.Context, e *activity.Entry) error
	List(ctx context.Context, action string, limit, offset int) ([]*activity.Entry, error)
	ListByDataset(ctx context.Context, datasetID core.DatasetID, limit int) ([]*activity.Entry, error)
}
