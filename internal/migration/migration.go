package migration

import (
	"context"

	"energyexplain/internal/errors"

	"github.com/jmoiron/sqlx"
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

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createEvaluationResponsesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create evaluation_responses table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createEvaluationResponsesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS evaluation_responses (
			id VARCHAR(64) PRIMARY KEY,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			participant_id VARCHAR(255) NOT NULL,
			preference VARCHAR(20) NOT NULL,
			method_a_helpfulness SMALLINT NOT NULL DEFAULT 0,
			method_a_understandability SMALLINT NOT NULL DEFAULT 0,
			method_a_speed SMALLINT NOT NULL DEFAULT 0,
			method_a_practicality SMALLINT NOT NULL DEFAULT 0,
			method_b_helpfulness SMALLINT NOT NULL DEFAULT 0,
			method_b_understandability SMALLINT NOT NULL DEFAULT 0,
			method_b_speed SMALLINT NOT NULL DEFAULT 0,
			method_b_practicality SMALLINT NOT NULL DEFAULT 0,
			comments TEXT NOT NULL DEFAULT '',
			data_source VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_evaluation_responses_timestamp ON evaluation_responses(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluation_responses_participant ON evaluation_responses(participant_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
