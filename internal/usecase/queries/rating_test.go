//go:build unit

package queries_test

import (
	"context"
	"sync/atomic"
	"testing"

	"bookcore/internal/infra"
	"bookcore/internal/usecase/queries"
	"bookcore/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRatingReadStore struct {
	summary *queries.RatingSummary
	err     error
	calls   atomic.Int32
}

func (s *stubRatingReadStore) GetSummary(context.Context, uuid.UUID) (*queries.RatingSummary, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func TestGetRatingSummary(t *testing.T) {
	ctx := context.Background()
	resourceID := uuid.New()
	summary := &queries.RatingSummary{ResourceID: resourceID, AverageRating: 4.3, TotalRatings: 3}

	t.Run("cache hit skips the store", func(t *testing.T) {
		store := &stubRatingReadStore{summary: summary}
		cache := fake.NewSummaryCache()
		cache.Seed(summary)
		q := queries.NewRatingQueries(store, cache)

		got, err := q.GetSummary(ctx, resourceID)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
		assert.Equal(t, int32(0), store.calls.Load())
	})

	t.Run("miss reads the store and fills the cache", func(t *testing.T) {
		store := &stubRatingReadStore{summary: summary}
		cache := fake.NewSummaryCache()
		q := queries.NewRatingQueries(store, cache)

		got, err := q.GetSummary(ctx, resourceID)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
		assert.Equal(t, int32(1), store.calls.Load())

		cached, err := cache.Get(ctx, resourceID)
		require.NoError(t, err)
		assert.Equal(t, summary, cached)
	})

	t.Run("cache read error is treated as a miss", func(t *testing.T) {
		store := &stubRatingReadStore{summary: summary}
		cache := fake.NewSummaryCache()
		cache.GetErr = assert.AnError
		q := queries.NewRatingQueries(store, cache)

		got, err := q.GetSummary(ctx, resourceID)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
		assert.Equal(t, int32(1), store.calls.Load())
	})

	t.Run("cache write error does not fail the read", func(t *testing.T) {
		store := &stubRatingReadStore{summary: summary}
		cache := fake.NewSummaryCache()
		cache.SetErr = assert.AnError
		q := queries.NewRatingQueries(store, cache)

		got, err := q.GetSummary(ctx, resourceID)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
	})

	t.Run("unknown resource", func(t *testing.T) {
		store := &stubRatingReadStore{err: infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)}
		q := queries.NewRatingQueries(store, fake.NewSummaryCache())

		_, err := q.GetSummary(ctx, uuid.New())
		require.ErrorIs(t, err, queries.ErrResourceNotFound)
	})
}
