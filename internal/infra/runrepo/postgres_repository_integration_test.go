//go:build integration

package runrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/dailyreport/internal/domain/runs"
)

func TestPostgresRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("RUNS_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RUNS_POSTGRES_DSN is not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewPostgresRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	started := time.Now().UTC().Truncate(time.Millisecond)
	rec := runs.Record{
		ID:          uuid.NewString(),
		Job:         "daily_report",
		StartedAt:   started,
		FinishedAt:  started.Add(3 * time.Second),
		ReportDate:  "2024-05-01",
		EventCount:  4,
		LogEntries:  12,
		FailedSteps: []string{"notify"},
		Errors:      []string{"notify: send email: timeout"},
		Saved:       true,
		Outcome:     runs.OutcomeSaved,
	}
	require.NoError(t, repo.Save(ctx, rec))

	recent, err := repo.Recent(ctx, 50)
	require.NoError(t, err)
	var found *runs.Record
	for i := range recent {
		if recent[i].ID == rec.ID {
			found = &recent[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, rec.FailedSteps, found.FailedSteps)
	require.Equal(t, rec.Outcome, found.Outcome)
	require.True(t, rec.StartedAt.Equal(found.StartedAt))
}
