package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookcore/internal/domain/actor"
	"bookcore/internal/domain/reservation"
	"bookcore/internal/infra"
	"bookcore/internal/pkg/clock"
	"bookcore/internal/pkg/errs"
	"bookcore/internal/usecase/queries"
	"bookcore/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound        = errs.New("resource not found")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrReservationConflict     = errs.New("reservation conflict")
	ErrInvalidInterval         = errs.New("invalid interval")
	ErrInvalidPricing          = errs.New("invalid pricing inputs")
	ErrInvalidStatusValue      = errs.New("invalid status value")
	ErrIllegalTransition       = errs.New("illegal status transition")
	ErrTerminalState           = errs.New("reservation is in a terminal state")
	ErrCancellationReason      = errs.New("cancellation reason is required")
	ErrNotDeletable            = errs.New("cannot delete active or completed reservation")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ConflictError carries the intervals that blocked admission so callers can
// correct the request. errors.Is(err, ErrReservationConflict) holds.
type ConflictError struct {
	Conflicts []queries.ConflictInterval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("reservation conflict with %d overlapping reservations", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrReservationConflict
}

type CreateReservationParams struct {
	ResourceID     uuid.UUID
	RequesterID    uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	DailyRateCents int64
	SurchargeCents int64
	DiscountCents  int64
}

type UpdateReservationStatusParams struct {
	Status             *string
	AdminStatus        *string
	OwnerStatus        *string
	CancellationReason *string
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, params CreateReservationParams) (uuid.UUID, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, params UpdateReservationStatusParams, act actor.Actor) error
	DeleteReservation(ctx context.Context, id uuid.UUID, act actor.Actor) error
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
	clock    clock.Clock
}

func NewReservationCommands(uow shared.UnitOfWork, notifier Notifier, clk clock.Clock) ReservationCommands {
	return &reservationCommandsImpl{uow: uow, notifier: notifier, clock: clk}
}

// CreateReservation admits the candidate interval against the resource's
// capacity and inserts it as one atomic unit: the overlap check and the
// insert both run inside the same transaction, serialized per resource by an
// advisory lock. Without that lock two concurrent callers could both observe
// "admit" before either write commits.
func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, params CreateReservationParams) (uuid.UUID, error) {
	iv, err := reservation.NewInterval(params.StartTime, params.EndTime)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidInterval)
	}

	quote, err := reservation.NewQuote(reservation.PricingInputs{
		DailyRateCents: params.DailyRateCents,
		SurchargeCents: params.SurchargeCents,
		DiscountCents:  params.DiscountCents,
	}, iv)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidPricing)
	}

	rsv := reservation.NewReservation(params.ResourceID, params.RequesterID, iv, quote)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, txErr := tx.Resources().FindByID(ctx, params.ResourceID)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrResourceNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		if txErr = tx.Resources().AcquireIntervalLock(ctx, params.ResourceID); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		holds, txErr := tx.Reservations().FindBlockingHolds(ctx, params.ResourceID, iv, uuid.Nil)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		decision := reservation.Decide(res.Capacity(), iv, holds)
		if !decision.Admit {
			return &ConflictError{Conflicts: queries.ToConflictIntervals(decision.Conflicts)}
		}

		if txErr = tx.Reservations().Create(ctx, rsv); txErr != nil {
			if infra.IsKind(txErr, infra.KindConflict) {
				return ErrReservationConflict
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return rsv.ID(), nil
}

// UpdateReservationStatus applies a partial workflow update to the
// (status, adminStatus, ownerStatus) triple. A transition into a blocking
// status re-checks capacity under the same per-resource lock as create,
// because admission at creation time does not survive other reservations
// becoming blocking concurrently.
func (c *reservationCommandsImpl) UpdateReservationStatus(ctx context.Context, id uuid.UUID, params UpdateReservationStatusParams, act actor.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rsv, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		loaded := rsv.Status()
		wasFinalized := rsv.Finalized()

		if params.Status != nil {
			next := reservation.Status(*params.Status)
			if !next.IsValid() {
				return ErrInvalidStatusValue
			}
			if err := c.recheckCapacityIfNeeded(ctx, tx, rsv, next); err != nil {
				return err
			}
			if err := rsv.ChangeStatus(next, params.CancellationReason, act.ID); err != nil {
				return mapWorkflowErr(err)
			}
		}

		if params.AdminStatus != nil {
			next := reservation.AdminStatus(*params.AdminStatus)
			if !next.IsValid() {
				return ErrInvalidStatusValue
			}
			if err := rsv.SetAdminStatus(next, act.ID); err != nil {
				return mapWorkflowErr(err)
			}
		}

		if params.OwnerStatus != nil {
			next := reservation.OwnerStatus(*params.OwnerStatus)
			if !next.IsValid() {
				return ErrInvalidStatusValue
			}
			if err := rsv.SetOwnerStatus(next, act.ID); err != nil {
				return mapWorkflowErr(err)
			}
		}

		if err := tx.Reservations().UpdateWorkflow(ctx, rsv, loaded); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrReservationConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Edge-triggered confirmation: only the update that moves the triple
		// into the finalized condition may send, and only once. The claim is
		// part of the transaction; the send runs after commit and is
		// fire-and-forget.
		if !wasFinalized && rsv.Finalized() {
			claimed, err := tx.Reservations().ClaimNotification(ctx, rsv.ID(), c.clock.Now().UTC())
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if claimed {
				c.scheduleConfirmation(tx, rsv)
			}
		}

		return nil
	})
}

func (c *reservationCommandsImpl) DeleteReservation(ctx context.Context, id uuid.UUID, act actor.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rsv, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !rsv.Deletable() {
			return ErrNotDeletable
		}

		if err := tx.Reservations().Delete(ctx, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *reservationCommandsImpl) recheckCapacityIfNeeded(ctx context.Context, tx shared.Tx, rsv *reservation.Reservation, next reservation.Status) error {
	if rsv.Status().IsBlocking() || !next.IsBlocking() {
		return nil
	}

	res, err := tx.Resources().FindByID(ctx, rsv.ResourceID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrResourceNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Resources().AcquireIntervalLock(ctx, rsv.ResourceID()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	holds, err := tx.Reservations().FindBlockingHolds(ctx, rsv.ResourceID(), rsv.Interval(), rsv.ID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	decision := reservation.Decide(res.Capacity(), rsv.Interval(), holds)
	if !decision.Admit {
		return &ConflictError{Conflicts: queries.ToConflictIntervals(decision.Conflicts)}
	}
	return nil
}

func (c *reservationCommandsImpl) scheduleConfirmation(tx shared.Tx, rsv *reservation.Reservation) {
	requesterID := rsv.RequesterID()
	reservationID := rsv.ID()
	iv := rsv.Interval()

	tx.AfterCommit(func(ctx context.Context) {
		subject := "Reservation confirmed"
		body := fmt.Sprintf("Your reservation %s for %s is confirmed.", reservationID, iv.ToTstzrange())
		if err := c.notifier.Send(ctx, requesterID, subject, body); err != nil {
			slog.Warn("confirmation notification failed",
				"reservation_id", reservationID,
				"requester_id", requesterID,
				"error", err)
		}
	})
}

func mapWorkflowErr(err error) error {
	switch {
	case errors.Is(err, reservation.ErrTerminalState):
		return errs.Mark(err, ErrTerminalState)
	case errors.Is(err, reservation.ErrIllegalTransition):
		return errs.Mark(err, ErrIllegalTransition)
	case errors.Is(err, reservation.ErrCancellationReasonRequired):
		return errs.Mark(err, ErrCancellationReason)
	default:
		return err
	}
}
