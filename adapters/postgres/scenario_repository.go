package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"orion/domain/core"
	"orion/domain/scenario"
	apperrors "orion/internal/errors"
	"orion/ports"
)

// scenarioRepository implements the ScenarioRepository interface
type scenarioRepository struct {
	db *sqlx.DB
}

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *sqlx.DB) ports.ScenarioRepository {
	return &scenarioRepository{db: db}
}

const scenarioColumns = `id, name, description, dataset_id, payload, created_at, updated_at`

func (r *scenarioRepository) Create(ctx context.Context, s *scenario.Scenario) error {
	payloadJSON, err := json.Marshal(s.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario payload: %w", err)
	}

	query := `INSERT INTO scenarios (` + scenarioColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Description, s.DatasetID, payloadJSON, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	return nil
}

func (r *scenarioRepository) GetByID(ctx context.Context, id core.ScenarioID) (*scenario.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1`

	var s scenario.Scenario
	var payloadJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.DatasetID, &payloadJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("scenario %s", id))
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &s.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scenario payload: %w", err)
		}
	}
	return &s, nil
}

func (r *scenarioRepository) ListByDataset(ctx context.Context, datasetID core.DatasetID) ([]*scenario.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios
	WHERE dataset_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios for dataset: %w", err)
	}
	defer rows.Close()

	return scanScenarios(rows)
}

func (r *scenarioRepository) List(ctx context.Context, limit, offset int) ([]*scenario.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios
	ORDER BY updated_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	return scanScenarios(rows)
}

func scanScenarios(rows *sql.Rows) ([]*scenario.Scenario, error) {
	var out []*scenario.Scenario
	for rows.Next() {
		var s scenario.Scenario
		var payloadJSON []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DatasetID, &payloadJSON, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &s.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal scenario payload: %w", err)
			}
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *scenarioRepository) Update(ctx context.Context, s *scenario.Scenario) error {
	payloadJSON, err := json.Marshal(s.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario payload: %w", err)
	}

	query := `UPDATE scenarios
	SET name = $1, description = $2, payload = $3, updated_at = $4
	WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, s.Name, s.Description, payloadJSON, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update scenario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("scenario %s", s.ID))
	}
	return nil
}

func (r *scenarioRepository) Delete(ctx context.Context, id core.ScenarioID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("scenario %s", id))
	}
	return nil
}
