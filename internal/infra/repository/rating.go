package repository

import (
	"context"

	"bookcore/internal/domain/rating"
	"bookcore/internal/infra"
	"bookcore/internal/infra/db"

	"github.com/google/uuid"
)

type RatingRepository struct {
	dbx db.DB
}

func NewRatingRepository(dbx db.DB) *RatingRepository {
	return &RatingRepository{dbx: dbx}
}

func (r *RatingRepository) Upsert(ctx context.Context, rt *rating.Rating) error {
	_, err := r.dbx.Exec(ctx,
		`INSERT INTO ratings (id, resource_id, user_id, score, review, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 ON CONFLICT (resource_id, user_id)
		 DO UPDATE SET score = EXCLUDED.score, review = EXCLUDED.review, updated_at = now()`,
		rt.ID(), rt.ResourceID(), rt.UserID(), rt.Score().Value(), rt.Review().String(),
	)
	if err != nil {
		return wrapPgErr("failed to upsert rating", err)
	}
	return nil
}

func (r *RatingRepository) Delete(ctx context.Context, resourceID, userID uuid.UUID) error {
	tag, err := r.dbx.Exec(ctx,
		`DELETE FROM ratings WHERE resource_id = $1 AND user_id = $2`,
		resourceID, userID,
	)
	if err != nil {
		return wrapPgErr("failed to delete rating", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rating not found", nil, infra.KindNotFound)
	}
	return nil
}

// RecalcAggregate rewrites the denormalized rating columns on the resource row
// from the live ratings table. Runs in the same transaction as the mutation
// that made them stale.
func (r *RatingRepository) RecalcAggregate(ctx context.Context, resourceID uuid.UUID) error {
	_, err := r.dbx.Exec(ctx,
		`UPDATE resources
		    SET average_rating = COALESCE(
		            (SELECT ROUND(AVG(score)::numeric, 1) FROM ratings WHERE resource_id = $1), 0),
		        total_ratings = (SELECT COUNT(*) FROM ratings WHERE resource_id = $1),
		        updated_at = now()
		  WHERE id = $1`,
		resourceID,
	)
	if err != nil {
		return wrapPgErr("failed to recalculate rating aggregate", err)
	}
	return nil
}
