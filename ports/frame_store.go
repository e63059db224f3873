package ports

import (
	"context"

	"orion/domain/core"
	"orion/internal/frame"
)

// FrameStore persists the parsed tabular data of a dataset, keyed by
// dataset id. Implementations own the on-disk format.
type FrameStore interface {
	Save(ctx context.Context, id core.DatasetID, f *frame.Frame) (path string, err error)
	Load(ctx context.Context, id core.DatasetID) (*frame.Frame, error)
	Delete(ctx context.Context, id core.DatasetID) error
}
