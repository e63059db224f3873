package ports

import (
	"context"

	"orion/domain/core"
	"orion/domain/project"
)

// ProjectRepository defines the interface for prediction-form projects
// and their run history
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	GetByID(ctx context.Context, id core.ProjectID) (*project.Project, error)
	List(ctx context.Context, limit, offset int) ([]*project.Project, error)
	Update(ctx context.Context, p *project.Project) error
	Delete(ctx context.Context, id core.ProjectID) error

	CreateRun(ctx context.Context, r *project.Run) error
	ListRuns(ctx context.Context, projectID core.ProjectID, limit int) ([]*project.Run, error)
}
