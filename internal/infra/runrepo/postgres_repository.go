package runrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/dailyreport/internal/domain/runs"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_runs (
	id           UUID PRIMARY KEY,
	job          TEXT NOT NULL,
	started_at   TIMESTAMPTZ NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL,
	report_date  TEXT NOT NULL DEFAULT '',
	event_count  INTEGER NOT NULL DEFAULT 0,
	log_entries  INTEGER NOT NULL DEFAULT 0,
	failed_steps TEXT[] NOT NULL DEFAULT '{}',
	errors       TEXT[] NOT NULL DEFAULT '{}',
	saved        BOOLEAN NOT NULL DEFAULT FALSE,
	notified     BOOLEAN NOT NULL DEFAULT FALSE,
	outcome      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS job_runs_started_at_idx ON job_runs (started_at DESC);
`

// PostgresRepository implements runs.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the run table when it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure job_runs schema: %w", err)
	}
	return nil
}

// Save inserts the run record.
func (r *PostgresRepository) Save(ctx context.Context, rec runs.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO job_runs (id, job, started_at, finished_at, report_date, event_count, log_entries, failed_steps, errors, saved, notified, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rec.ID, rec.Job, rec.StartedAt, rec.FinishedAt, rec.ReportDate, rec.EventCount, rec.LogEntries,
		nonNil(rec.FailedSteps), nonNil(rec.Errors), rec.Saved, rec.Notified, rec.Outcome)
	if err != nil {
		return fmt.Errorf("insert job run: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]runs.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, job, started_at, finished_at, report_date, event_count, log_entries, failed_steps, errors, saved, notified, outcome
		FROM job_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query job runs: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, scanRecord)
}

func scanRecord(row pgx.CollectableRow) (runs.Record, error) {
	var rec runs.Record
	err := row.Scan(
		&rec.ID,
		&rec.Job,
		&rec.StartedAt,
		&rec.FinishedAt,
		&rec.ReportDate,
		&rec.EventCount,
		&rec.LogEntries,
		&rec.FailedSteps,
		&rec.Errors,
		&rec.Saved,
		&rec.Notified,
		&rec.Outcome,
	)
	return rec, err
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var _ runs.Repository = (*PostgresRepository)(nil)
