package queries

import (
	"context"
	"time"

	"bookcore/internal/domain/actor"
	"bookcore/internal/domain/reservation"
	"bookcore/internal/infra"
	"bookcore/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrReservationAccess   = errs.New("access to reservation denied")
	ErrResourceNotFound    = errs.New("resource not found")
	ErrInvalidInterval     = errs.New("invalid interval")
)

type ReservationView struct {
	ID                 uuid.UUID  `json:"id"`
	ResourceID         uuid.UUID  `json:"resource_id"`
	ResourceName       string     `json:"resource_name"`
	RequesterID        uuid.UUID  `json:"requester_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Status             string     `json:"status"`
	AdminStatus        string     `json:"admin_status"`
	OwnerStatus        string     `json:"owner_status"`
	DailyRateCents     int64      `json:"daily_rate_cents"`
	Days               int32      `json:"days"`
	SubtotalCents      int64      `json:"subtotal_cents"`
	SurchargeCents     int64      `json:"surcharge_cents"`
	DiscountCents      int64      `json:"discount_cents"`
	TotalCents         int64      `json:"total_cents"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ReservationListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type ConflictInterval struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type AvailabilityResult struct {
	Available bool               `json:"available"`
	Conflicts []ConflictInterval `json:"conflicts"`
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]*ReservationListItem, error)
	FindBlockingHolds(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]reservation.Hold, error)
}

type ResourceReadStore interface {
	FindCapacity(ctx context.Context, resourceID uuid.UUID) (int, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, act actor.Actor) (*ReservationView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*ReservationListItem, error)
	// CheckAvailability is advisory only: it runs the conflict detector over a
	// snapshot without any lock, so only the create path is authoritative.
	CheckAvailability(ctx context.Context, resourceID uuid.UUID, start, end time.Time) (*AvailabilityResult, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReadStore
	resources    ResourceReadStore
}

func NewReservationQueries(reservations ReservationReadStore, resources ResourceReadStore) ReservationQueries {
	return &reservationQueriesImpl{reservations: reservations, resources: resources}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, act actor.Actor) (*ReservationView, error) {
	view, err := q.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "failed to find reservation")
	}

	if act.Role == actor.RoleRequester && view.RequesterID != act.ID {
		return nil, ErrReservationAccess
	}

	return view, nil
}

func (q *reservationQueriesImpl) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*ReservationListItem, error) {
	items, err := q.reservations.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list reservations")
	}
	return items, nil
}

func (q *reservationQueriesImpl) CheckAvailability(ctx context.Context, resourceID uuid.UUID, start, end time.Time) (*AvailabilityResult, error) {
	iv, err := reservation.NewInterval(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	capacity, err := q.resources.FindCapacity(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errs.Wrap(err, "failed to find resource")
	}

	holds, err := q.reservations.FindBlockingHolds(ctx, resourceID, iv)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find overlapping reservations")
	}

	decision := reservation.Decide(capacity, iv, holds)
	return &AvailabilityResult{
		Available: decision.Admit,
		Conflicts: ToConflictIntervals(decision.Conflicts),
	}, nil
}

func ToConflictIntervals(holds []reservation.Hold) []ConflictInterval {
	if len(holds) == 0 {
		return nil
	}
	out := make([]ConflictInterval, len(holds))
	for i, h := range holds {
		out[i] = ConflictInterval{
			ReservationID: h.ID,
			StartTime:     h.Interval.Start(),
			EndTime:       h.Interval.End(),
		}
	}
	return out
}
