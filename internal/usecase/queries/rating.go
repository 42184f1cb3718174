package queries

import (
	"context"
	"log/slog"

	"bookcore/internal/infra"
	"bookcore/internal/pkg/errs"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type RatingSummary struct {
	ResourceID    uuid.UUID `json:"resource_id"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int32     `json:"total_ratings"`
}

type RatingReadStore interface {
	GetSummary(ctx context.Context, resourceID uuid.UUID) (*RatingSummary, error)
}

// SummaryCache is a best-effort cache over the denormalized aggregate.
// Cache failures are logged and treated as misses.
type SummaryCache interface {
	Get(ctx context.Context, resourceID uuid.UUID) (*RatingSummary, error)
	Set(ctx context.Context, summary *RatingSummary) error
	Invalidate(ctx context.Context, resourceID uuid.UUID) error
}

type RatingQueries interface {
	GetSummary(ctx context.Context, resourceID uuid.UUID) (*RatingSummary, error)
}

type ratingQueriesImpl struct {
	store RatingReadStore
	cache SummaryCache
	group singleflight.Group
}

func NewRatingQueries(store RatingReadStore, cache SummaryCache) RatingQueries {
	return &ratingQueriesImpl{store: store, cache: cache}
}

func (q *ratingQueriesImpl) GetSummary(ctx context.Context, resourceID uuid.UUID) (*RatingSummary, error) {
	if cached, err := q.cache.Get(ctx, resourceID); err != nil {
		slog.Warn("rating summary cache read failed", "resource_id", resourceID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	// Collapse concurrent misses for the same resource into one store read.
	v, err, _ := q.group.Do(resourceID.String(), func() (any, error) {
		summary, err := q.store.GetSummary(ctx, resourceID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrResourceNotFound
			}
			return nil, errs.Wrap(err, "failed to read rating summary")
		}
		if cacheErr := q.cache.Set(ctx, summary); cacheErr != nil {
			slog.Warn("rating summary cache write failed", "resource_id", resourceID, "error", cacheErr)
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*RatingSummary), nil
}
