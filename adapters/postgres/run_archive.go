package postgres

import (
	"context"
	"database/sql"
	"errors"

	"revkit/domain/core"
	apperrors "revkit/internal/errors"
	"revkit/ports"

	"github.com/jmoiron/sqlx"
)

// RunArchiveImpl implements RunArchive for PostgreSQL
type RunArchiveImpl struct {
	db *sqlx.DB
}

// NewRunArchive creates a new PostgreSQL run archive
func NewRunArchive(db *sqlx.DB) ports.RunArchive {
	return &RunArchiveImpl{db: db}
}

// Record stores one pipeline run
func (r *RunArchiveImpl) Record(ctx context.Context, rec *ports.RunRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO pipeline_runs (
			id, indicator, release_label, datasets, periods,
			status, error_message, started_at, finished_at
		) VALUES (
			:id, :indicator, :release_label, :datasets, :periods,
			:status, :error_message, :started_at, :finished_at
		)
	`, rec)
	if err != nil {
		return apperrors.DatabaseError(err, "failed to record run")
	}
	return nil
}

// Recent returns the most recent runs for an indicator, newest first
func (r *RunArchiveImpl) Recent(ctx context.Context, indicator string, limit int) ([]*ports.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []*ports.RunRecord
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, indicator, release_label, datasets, periods,
		       status, error_message, started_at, finished_at
		FROM pipeline_runs
		WHERE indicator = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, indicator, limit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err, "failed to query runs for "+indicator)
	}
	return runs, nil
}

// EnsureSchema creates the run archive table if it does not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id            TEXT PRIMARY KEY,
			indicator     TEXT NOT NULL,
			release_label TEXT NOT NULL DEFAULT '',
			datasets      INT NOT NULL DEFAULT 0,
			periods       INT NOT NULL DEFAULT 0,
			status        TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS pipeline_runs_indicator_idx
			ON pipeline_runs (indicator, started_at DESC);
	`)
	if err != nil {
		return apperrors.DatabaseError(err, "failed to create run archive schema")
	}
	return nil
}
