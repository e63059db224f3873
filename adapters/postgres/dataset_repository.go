// Package postgres implements the repository ports on sqlx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"orion/domain/core"
	"orion/domain/dataset"
	apperrors "orion/internal/errors"
	"orion/ports"
)

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

func (r *datasetRepository) Create(ctx context.Context, ds *dataset.Dataset) error {
	columnsJSON, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}

	query := `INSERT INTO datasets (
		id, name, original_filename, frame_path, columns, row_count, col_count, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		ds.ID, ds.Name, ds.OriginalFilename, ds.FramePath, columnsJSON, ds.RowCount, ds.ColCount, ds.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	return nil
}

func (r *datasetRepository) GetByID(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	query := `SELECT id, name, original_filename, frame_path, columns, row_count, col_count, created_at
	FROM datasets WHERE id = $1`

	var ds dataset.Dataset
	var columnsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ds.ID, &ds.Name, &ds.OriginalFilename, &ds.FramePath, &columnsJSON, &ds.RowCount, &ds.ColCount, &ds.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("dataset %s", id))
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	if len(columnsJSON) > 0 {
		if err := json.Unmarshal(columnsJSON, &ds.Columns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
		}
	}
	return &ds, nil
}

func (r *datasetRepository) List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error) {
	query := `SELECT id, name, original_filename, frame_path, columns, row_count, col_count, created_at
	FROM datasets ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var out []*dataset.Dataset
	for rows.Next() {
		var ds dataset.Dataset
		var columnsJSON []byte
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.OriginalFilename, &ds.FramePath, &columnsJSON, &ds.RowCount, &ds.ColCount, &ds.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		if len(columnsJSON) > 0 {
			if err := json.Unmarshal(columnsJSON, &ds.Columns); err != nil {
				return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
			}
		}
		out = append(out, &ds)
	}
	return out, rows.Err()
}

func (r *datasetRepository) UpdateName(ctx context.Context, id core.DatasetID, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE datasets SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename dataset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return nil
}

func (r *datasetRepository) UpdateColumns(ctx context.Context, id core.DatasetID, columns []dataset.ColumnMeta) error {
	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE datasets SET columns = $1 WHERE id = $2`, columnsJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update dataset columns: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return nil
}

func (r *datasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return nil
}

func (r *datasetRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM datasets`); err != nil {
		return 0, fmt.Errorf("failed to count datasets: %w", err)
	}
	return n, nil
}
