package fake

import (
	"context"
	"sync"

	"bookcore/internal/usecase/queries"

	"github.com/google/uuid"
)

// SummaryCache is an in-memory queries.SummaryCache recording invalidations.
type SummaryCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*queries.RatingSummary
	Invalidated []uuid.UUID

	GetErr error
	SetErr error
}

func NewSummaryCache() *SummaryCache {
	return &SummaryCache{entries: make(map[uuid.UUID]*queries.RatingSummary)}
}

func (c *SummaryCache) Get(_ context.Context, resourceID uuid.UUID) (*queries.RatingSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	return c.entries[resourceID], nil
}

func (c *SummaryCache) Set(_ context.Context, summary *queries.RatingSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	c.entries[summary.ResourceID] = summary
	return nil
}

func (c *SummaryCache) Invalidate(_ context.Context, resourceID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, resourceID)
	c.Invalidated = append(c.Invalidated, resourceID)
	return nil
}

// Seed stores an entry without going through Set error injection.
func (c *SummaryCache) Seed(summary *queries.RatingSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[summary.ResourceID] = summary
}
