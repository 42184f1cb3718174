package shared

import (
	"context"
	"time"

	"bookcore/internal/domain/rating"
	"bookcore/internal/domain/reservation"
	"bookcore/internal/domain/resource"

	"github.com/google/uuid"
)

// UnitOfWork runs write-side work inside a single transaction with retry on
// serialization failures. Hooks registered via Tx.AfterCommit run only after
// a successful commit.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Resources() ResourceRepository
	Ratings() RatingRepository
	AfterCommit(hook func(ctx context.Context))
}

type ReservationRepository interface {
	Create(ctx context.Context, rsv *reservation.Reservation) error
	// FindByID loads the reservation and takes its row lock for the rest of
	// the transaction, so the read-modify-write of the workflow triple
	// serializes with concurrent cancellations.
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindBlockingHolds returns the confirmed/active reservations of a
	// resource overlapping iv, excluding excludeID when non-nil.
	FindBlockingHolds(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval, excludeID uuid.UUID) ([]reservation.Hold, error)
	// UpdateWorkflow writes the workflow triple, compare-and-set on the
	// status the transaction loaded. A CONFLICT kind means the stored status
	// moved underneath the caller and nothing was written.
	UpdateWorkflow(ctx context.Context, rsv *reservation.Reservation, loaded reservation.Status) error
	// ClaimNotification stamps notified_at iff it is still unset, returning
	// whether this call won the claim. Makes the confirmation dispatch
	// edge-triggered under concurrent updates.
	ClaimNotification(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	// AcquireIntervalLock takes the per-resource advisory lock serializing
	// check-and-insert against concurrent admissions. Held until commit.
	AcquireIntervalLock(ctx context.Context, resourceID uuid.UUID) error
}

type RatingRepository interface {
	Upsert(ctx context.Context, r *rating.Rating) error
	Delete(ctx context.Context, resourceID, userID uuid.UUID) error
	// RecalcAggregate recomputes the denormalized rating summary from the
	// rating rows and writes it onto the resource.
	RecalcAggregate(ctx context.Context, resourceID uuid.UUID) error
}
