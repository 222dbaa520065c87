package runrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/dailyreport/internal/domain/runs"
)

func TestMemoryRepositoryRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, runs.Record{ID: fmt.Sprintf("run-%d", i)}))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"run-2", "run-1"}, ids(recent))

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryRepositoryCapacity(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.capacity = 2
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, runs.Record{ID: fmt.Sprintf("run-%d", i)}))
	}

	all, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"run-4", "run-3"}, ids(all))
}

func ids(records []runs.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}
