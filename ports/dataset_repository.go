package ports

import (
	"context"

	"orion/domain/core"
	"orion/domain/dataset"
)

// DatasetRepository defines the interface for dataset metadata storage
type DatasetRepository interface {
	Create(ctx context.Context, ds *dataset.Dataset) error
	GetByID(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error)
	List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error)
	UpdateName(ctx context.Context, id core.DatasetID, name string) error
	UpdateColumns(ctx context.Context, id core.DatasetID, columns []dataset.ColumnMeta) error
	Delete(ctx context.Context, id core.DatasetID) error
	Count(ctx context.Context) (int, error)
}
