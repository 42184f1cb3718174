package repository

import (
	"context"
	"time"

	"bookcore/internal/domain/resource"
	"bookcore/internal/infra/db"

	"github.com/google/uuid"
)

type ResourceRepository struct {
	dbx db.DB
}

func NewResourceRepository(dbx db.DB) *ResourceRepository {
	return &ResourceRepository{dbx: dbx}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	row := r.dbx.QueryRow(ctx,
		`SELECT id, name, capacity, owner_id, average_rating, total_ratings, created_at, updated_at
		   FROM resources
		  WHERE id = $1`,
		id,
	)

	var (
		resID, ownerID       uuid.UUID
		name                 string
		capacity             int
		rating               resource.RatingAggregate
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&resID, &name, &capacity, &ownerID, &rating.AverageRating, &rating.TotalRatings, &createdAt, &updatedAt); err != nil {
		return nil, wrapPgErr("failed to find resource", err)
	}

	return resource.ReconstructResource(resID, name, capacity, ownerID, rating, createdAt, updatedAt), nil
}

// AcquireIntervalLock serializes admission checks per resource. The lock is
// transaction-scoped: Postgres releases it at commit or rollback, so the
// overlap count and the insert that follows it form one critical section.
func (r *ResourceRepository) AcquireIntervalLock(ctx context.Context, resourceID uuid.UUID) error {
	_, err := r.dbx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		resourceID,
	)
	if err != nil {
		return wrapPgErr("failed to acquire resource lock", err)
	}
	return nil
}
