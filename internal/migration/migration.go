package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"orion/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create datasets table")
	}

	if err := r.createScenariosTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create scenarios table")
	}

	if err := r.createProjectsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create projects table")
	}

	if err := r.createProjectRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create project_runs table")
	}

	if err := r.createActivityLogTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create activity_log table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			original_filename VARCHAR(255) NOT NULL,
			frame_path TEXT NOT NULL,
			columns JSONB NOT NULL DEFAULT '[]',
			row_count INTEGER NOT NULL DEFAULT 0,
			col_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createScenariosTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scenarios (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			dataset_id UUID NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
			payload JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createProjectsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			dataset_id UUID NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
			model_id UUID NOT NULL,
			model_label VARCHAR(100) NOT NULL,
			target VARCHAR(255) NOT NULL,
			features JSONB NOT NULL DEFAULT '[]',
			input_schema JSONB NOT NULL DEFAULT '[]',
			train_config JSONB,
			model_metrics JSONB,
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createProjectRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS project_runs (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			input_values JSONB NOT NULL DEFAULT '{}',
			predicted_value DOUBLE PRECISION NOT NULL,
			model_used VARCHAR(100) NOT NULL,
			expected_error DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

// createActivityLogTable keeps dataset_id nullable and unconstrained so
// audit history survives dataset deletion.
func (r *MigrationRunner) createActivityLogTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS activity_log (
			id UUID PRIMARY KEY,
			action VARCHAR(50) NOT NULL,
			dataset_id UUID,
			dataset_name VARCHAR(255) NOT NULL DEFAULT '',
			filename VARCHAR(255) NOT NULL DEFAULT '',
			user_name VARCHAR(255) NOT NULL DEFAULT '',
			ip_address VARCHAR(64) NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_scenarios_dataset_id ON scenarios(dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_dataset_id ON projects(dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_project_runs_project_id ON project_runs(project_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_log_dataset_id ON activity_log(dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_log_created_at ON activity_log(created_at DESC)`,
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
