package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tiagosv/llm-arena-api/internal/models"
)

type countingRepo struct {
	listCalls int
	rows      []models.Evaluation
	err       error
}

func (r *countingRepo) EnsureSchema(context.Context) error { return nil }

func (r *countingRepo) CreateBatch(context.Context, []models.Evaluation) error { return nil }

func (r *countingRepo) ListAll(context.Context) ([]models.Evaluation, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	return r.rows, nil
}

func newCacheFixture(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	return cache, server
}

func TestListEvaluationsReadsThroughWithoutCache(t *testing.T) {
	rating := 4
	repo := &countingRepo{rows: []models.Evaluation{{ID: 1, Prompt: "q", ModelName: "model-a", Response: "r", Rating: &rating}}}
	svc := NewEvaluationService(repo, nil, time.Minute, testLogger())

	items, err := svc.ListEvaluations(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "model-a", items[0].ModelName)

	_, err = svc.ListEvaluations(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)
}

func TestListEvaluationsServesSecondReadFromCache(t *testing.T) {
	cache, _ := newCacheFixture(t)
	repo := &countingRepo{rows: []models.Evaluation{{ID: 1, Prompt: "q", ModelName: "model-a", Response: "r"}}}
	svc := NewEvaluationService(repo, cache, time.Minute, testLogger())

	_, err := svc.ListEvaluations(context.Background())
	require.NoError(t, err)

	items, err := svc.ListEvaluations(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, repo.listCalls, "the second listing should come from the cache")
}

func TestRefreshInvalidatesCache(t *testing.T) {
	cache, server := newCacheFixture(t)
	repo := &countingRepo{}
	svc := NewEvaluationService(repo, cache, time.Minute, testLogger())

	_, err := svc.ListEvaluations(context.Background())
	require.NoError(t, err)
	require.True(t, server.Exists(reviewCacheKey))

	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls, "refresh must bypass the cached listing")
}

func TestListEvaluationsPropagatesStoreErrors(t *testing.T) {
	repo := &countingRepo{err: errors.New("read failed")}
	svc := NewEvaluationService(repo, nil, time.Minute, testLogger())

	_, err := svc.ListEvaluations(context.Background())
	require.Error(t, err)
}
