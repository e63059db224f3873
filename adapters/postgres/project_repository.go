package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"orion/domain/core"
	"orion/domain/project"
	apperrors "orion/internal/errors"
	"orion/ports"
)

// projectRepository implements the ProjectRepository interface
type projectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sqlx.DB) ports.ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, description, dataset_id, model_id, model_label, target,
	features, input_schema, train_config, model_metrics, status, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	featuresJSON, inputSchemaJSON, trainConfigJSON, metricsJSON, err := marshalProjectFields(p)
	if err != nil {
		return err
	}

	query := `INSERT INTO projects (` + projectColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.DatasetID, p.ModelID, p.ModelLabel, p.Target,
		featuresJSON, inputSchemaJSON, trainConfigJSON, metricsJSON, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id core.ProjectID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProject(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("project %s", id))
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *projectRepository) List(ctx context.Context, limit, offset int) ([]*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
	ORDER BY updated_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []*project.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, p *project.Project) error {
	featuresJSON, inputSchemaJSON, trainConfigJSON, metricsJSON, err := marshalProjectFields(p)
	if err != nil {
		return err
	}

	query := `UPDATE projects
	SET name = $1, description = $2, model_id = $3, model_label = $4, target = $5,
		features = $6, input_schema = $7, train_config = $8, model_metrics = $9,
		status = $10, updated_at = $11
	WHERE id = $12`

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.ModelID, p.ModelLabel, p.Target,
		featuresJSON, inputSchemaJSON, trainConfigJSON, metricsJSON,
		p.Status, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("project %s", p.ID))
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id core.ProjectID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("project %s", id))
	}
	return nil
}

func (r *projectRepository) CreateRun(ctx context.Context, run *project.Run) error {
	inputsJSON, err := json.Marshal(run.InputValues)
	if err != nil {
		return fmt.Errorf("failed to marshal run inputs: %w", err)
	}

	query := `INSERT INTO project_runs (
		id, project_id, input_values, predicted_value, model_used, expected_error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.ProjectID, inputsJSON, run.PredictedValue, run.ModelUsed, run.ExpectedError, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project run: %w", err)
	}
	return nil
}

func (r *projectRepository) ListRuns(ctx context.Context, projectID core.ProjectID, limit int) ([]*project.Run, error) {
	query := `SELECT id, project_id, input_values, predicted_value, model_used, expected_error, created_at
	FROM project_runs WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list project runs: %w", err)
	}
	defer rows.Close()

	var out []*project.Run
	for rows.Next() {
		var run project.Run
		var inputsJSON []byte
		if err := rows.Scan(&run.ID, &run.ProjectID, &inputsJSON, &run.PredictedValue, &run.ModelUsed, &run.ExpectedError, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project run: %w", err)
		}
		if len(inputsJSON) > 0 {
			if err := json.Unmarshal(inputsJSON, &run.InputValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal run inputs: %w", err)
			}
		}
		out = append(out, &run)
	}
	return out, rows.Err()
}

func marshalProjectFields(p *project.Project) (features, inputSchema, trainConfig, metrics []byte, err error) {
	if features, err = json.Marshal(p.Features); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal project features: %w", err)
	}
	if inputSchema, err = json.Marshal(p.InputSchema); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal project input schema: %w", err)
	}
	if trainConfig, err = json.Marshal(p.TrainConfig); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal project train config: %w", err)
	}
	if metrics, err = json.Marshal(p.ModelMetrics); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal project metrics: %w", err)
	}
	return features, inputSchema, trainConfig, metrics, nil
}

func scanProject(scan func(dest ...any) error) (*project.Project, error) {
	var p project.Project
	var featuresJSON, inputSchemaJSON, trainConfigJSON, metricsJSON []byte

	err := scan(
		&p.ID, &p.Name, &p.Description, &p.DatasetID, &p.ModelID, &p.ModelLabel, &p.Target,
		&featuresJSON, &inputSchemaJSON, &trainConfigJSON, &metricsJSON, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{featuresJSON, &p.Features},
		{inputSchemaJSON, &p.InputSchema},
		{trainConfigJSON, &p.TrainConfig},
		{metricsJSON, &p.ModelMetrics},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project field: %w", err)
		}
	}
	return &p, nil
}
