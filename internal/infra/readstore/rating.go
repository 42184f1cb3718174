package readstore

import (
	"context"

	"bookcore/internal/infra/db"
	"bookcore/internal/usecase/queries"

	"github.com/google/uuid"
)

type RatingReadStore struct {
	dbx db.DB
}

func NewRatingReadStore(dbx db.DB) *RatingReadStore {
	return &RatingReadStore{dbx: dbx}
}

// GetSummary reads the denormalized aggregate off the resource row. It never
// touches the ratings table.
func (r *RatingReadStore) GetSummary(ctx context.Context, resourceID uuid.UUID) (*queries.RatingSummary, error) {
	row := r.dbx.QueryRow(ctx,
		`SELECT id, average_rating, total_ratings FROM resources WHERE id = $1`,
		resourceID,
	)

	var summary queries.RatingSummary
	if err := row.Scan(&summary.ResourceID, &summary.AverageRating, &summary.TotalRatings); err != nil {
		return nil, wrapPgErr("failed to read rating summary", err)
	}
	return &summary, nil
}
