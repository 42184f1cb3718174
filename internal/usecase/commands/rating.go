package commands

import (
	"context"
	"errors"
	"log/slog"

	"bookcore/internal/domain/rating"
	"bookcore/internal/infra"
	"bookcore/internal/pkg/errs"
	"bookcore/internal/usecase/queries"
	"bookcore/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidScore   = errs.New("score must be between 1 and 5")
	ErrReviewTooLong  = errs.New("review exceeds maximum length")
	ErrRatingNotFound = errs.New("rating not found")
)

type RatingCommands interface {
	SubmitRating(ctx context.Context, resourceID, userID uuid.UUID, score int, review string) (uuid.UUID, error)
	DeleteRating(ctx context.Context, resourceID, userID uuid.UUID) error
}

type ratingCommandsImpl struct {
	uow   shared.UnitOfWork
	cache queries.SummaryCache
}

func NewRatingCommands(uow shared.UnitOfWork, cache queries.SummaryCache) RatingCommands {
	return &ratingCommandsImpl{uow: uow, cache: cache}
}

// SubmitRating upserts the caller's rating for a resource and recomputes the
// denormalized aggregate in the same transaction. One rating per
// (resource, user); resubmitting replaces the stored score and review.
func (c *ratingCommandsImpl) SubmitRating(ctx context.Context, resourceID, userID uuid.UUID, score int, review string) (uuid.UUID, error) {
	r, err := rating.NewRating(resourceID, userID, score, review)
	if err != nil {
		return uuid.Nil, mapRatingErr(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, txErr := tx.Resources().FindByID(ctx, resourceID); txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrResourceNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		if txErr := tx.Ratings().Upsert(ctx, r); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		if txErr := tx.Ratings().RecalcAggregate(ctx, resourceID); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		tx.AfterCommit(func(ctx context.Context) {
			c.invalidateSummary(ctx, resourceID)
		})
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return r.ID(), nil
}

func (c *ratingCommandsImpl) DeleteRating(ctx context.Context, resourceID, userID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Ratings().Delete(ctx, resourceID, userID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRatingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Ratings().RecalcAggregate(ctx, resourceID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		tx.AfterCommit(func(ctx context.Context) {
			c.invalidateSummary(ctx, resourceID)
		})
		return nil
	})
}

func (c *ratingCommandsImpl) invalidateSummary(ctx context.Context, resourceID uuid.UUID) {
	if err := c.cache.Invalidate(ctx, resourceID); err != nil {
		slog.Warn("rating summary cache invalidation failed", "resource_id", resourceID, "error", err)
	}
}

func mapRatingErr(err error) error {
	switch {
	case errors.Is(err, rating.ErrInvalidScore):
		return errs.Mark(err, ErrInvalidScore)
	case errors.Is(err, rating.ErrReviewTooLong):
		return errs.Mark(err, ErrReviewTooLong)
	default:
		return err
	}
}
