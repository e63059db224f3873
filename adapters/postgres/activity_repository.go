package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orion/domain/activity"
	"orion/domain/core"
	"orion/ports"
)

// activityRepository implements the ActivityRepository interface
type activityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sqlx.DB) ports.ActivityRepository {
	return &activityRepository{db: db}
}

const activityColumns = `id, action, dataset_id, dataset_name, filename, user_name, ip_address, details, created_at`

func (r *activityRepository) Record(ctx context.Context, e *activity.Entry) error {
	query := `INSERT INTO activity_log (` + activityColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Action, e.DatasetID, e.DatasetName, e.Filename, e.User, e.IPAddress, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, action string, limit, offset int) ([]*activity.Entry, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_log
	WHERE ($1 = '' OR action = $1)
	ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, action, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *activityRepository) ListByDataset(ctx context.Context, datasetID core.DatasetID, limit int) ([]*activity.Entry, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_log
	WHERE dataset_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for dataset: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*activity.Entry, error) {
	var out []*activity.Entry
	for rows.Next() {
		var e activity.Entry
		var datasetID sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &datasetID, &e.DatasetName, &e.Filename, &e.User, &e.IPAddress, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if datasetID.Valid {
			id := core.DatasetID(datasetID.String)
			e.DatasetID = &id
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
