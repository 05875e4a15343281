package memory

import (
	"context"
	"sync"
	"testing"

	"energyexplain/domain/core"
	"energyexplain/domain/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluationRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewEvaluationRepository()

	require.NoError(t, repo.Save(ctx, &evaluation.Response{ID: core.ResponseID("a"), ParticipantID: "p1"}))
	require.NoError(t, repo.Save(ctx, &evaluation.Response{ID: core.ResponseID("b"), ParticipantID: "p2"}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, core.ResponseID("a"), list[0].ID)

	list[0].ParticipantID = "mutated"
	again, _ := repo.List(ctx)
	assert.Equal(t, "p1", again[0].ParticipantID)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	n, _ = repo.Count(ctx)
	assert.Zero(t, n)
}

func TestEvaluationRepository_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := NewEvaluationRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Save(ctx, &evaluation.Response{ID: core.NewResponseID()})
		}()
	}
	wg.Wait()
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestEvaluationRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewEvaluationRepository()
	assert.ErrorIs(t, repo.Save(ctx, &evaluation.Response{}), context.Canceled)
	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
