package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookcore/internal/pkg/errs"
	"bookcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "rating:summary:"

// RatingSummaryCache stores rating summaries in Redis as JSON with a TTL.
// A missing key is a miss, not an error.
type RatingSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingSummaryCache(client *redis.Client, ttl time.Duration) *RatingSummaryCache {
	return &RatingSummaryCache{client: client, ttl: ttl}
}

func summaryKey(resourceID uuid.UUID) string {
	return summaryKeyPrefix + resourceID.String()
}

func (c *RatingSummaryCache) Get(ctx context.Context, resourceID uuid.UUID) (*queries.RatingSummary, error) {
	data, err := c.client.Get(ctx, summaryKey(resourceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to read rating summary from cache")
	}

	var summary queries.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, errs.Wrap(err, "failed to decode cached rating summary")
	}
	return &summary, nil
}

func (c *RatingSummaryCache) Set(ctx context.Context, summary *queries.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return errs.Wrap(err, "failed to encode rating summary")
	}
	if err := c.client.Set(ctx, summaryKey(summary.ResourceID), data, c.ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to write rating summary to cache")
	}
	return nil
}

func (c *RatingSummaryCache) Invalidate(ctx context.Context, resourceID uuid.UUID) error {
	if err := c.client.Del(ctx, summaryKey(resourceID)).Err(); err != nil {
		return errs.Wrap(err, "failed to invalidate rating summary cache")
	}
	return nil
}
