package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTerminalState              = errors.New("reservation is in a terminal state")
	ErrIllegalTransition          = errors.New("illegal status transition")
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")
	ErrNotDeletable               = errors.New("cannot delete active or completed reservation")
)

type Reservation struct {
	id                 uuid.UUID
	resourceID         uuid.UUID
	requesterID        uuid.UUID
	interval           Interval
	quote              Quote
	status             Status
	adminStatus        AdminStatus
	ownerStatus        OwnerStatus
	cancellationReason *string
	notifiedAt         *time.Time
	createdBy          uuid.UUID
	updatedBy          uuid.UUID
	createdAt          time.Time
	updatedAt          time.Time
}

// NewReservation builds a fresh reservation in the initial workflow state.
func NewReservation(resourceID, requesterID uuid.UUID, iv Interval, quote Quote) *Reservation {
	return &Reservation{
		id:          uuid.New(),
		resourceID:  resourceID,
		requesterID: requesterID,
		interval:    iv,
		quote:       quote,
		status:      StatusPending,
		adminStatus: AdminPending,
		ownerStatus: OwnerPending,
		createdBy:   requesterID,
		updatedBy:   requesterID,
	}
}

func ReconstructReservation(
	id, resourceID, requesterID uuid.UUID,
	iv Interval,
	quote Quote,
	status Status,
	adminStatus AdminStatus,
	ownerStatus OwnerStatus,
	cancellationReason *string,
	notifiedAt *time.Time,
	createdBy, updatedBy uuid.UUID,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:                 id,
		resourceID:         resourceID,
		requesterID:        requesterID,
		interval:           iv,
		quote:              quote,
		status:             status,
		adminStatus:        adminStatus,
		ownerStatus:        ownerStatus,
		cancellationReason: cancellationReason,
		notifiedAt:         notifiedAt,
		createdBy:          createdBy,
		updatedBy:          updatedBy,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ChangeStatus moves the overall status along the monotonic chain. Cancelling
// requires a non-empty reason on every path.
func (r *Reservation) ChangeStatus(next Status, cancellationReason *string, actorID uuid.UUID) error {
	if r.status.IsTerminal() {
		return ErrTerminalState
	}
	if !r.status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	if next == StatusCancelled {
		if cancellationReason == nil || strings.TrimSpace(*cancellationReason) == "" {
			return ErrCancellationReasonRequired
		}
		reason := strings.TrimSpace(*cancellationReason)
		r.cancellationReason = &reason
	}
	r.status = next
	r.updatedBy = actorID
	return nil
}

func (r *Reservation) SetAdminStatus(next AdminStatus, actorID uuid.UUID) error {
	if r.status.IsTerminal() {
		return ErrTerminalState
	}
	r.adminStatus = next
	r.updatedBy = actorID
	return nil
}

func (r *Reservation) SetOwnerStatus(next OwnerStatus, actorID uuid.UUID) error {
	if r.status.IsTerminal() {
		return ErrTerminalState
	}
	r.ownerStatus = next
	r.updatedBy = actorID
	return nil
}

// Finalized is the predicate gating the one-time confirmation notification.
func (r *Reservation) Finalized() bool {
	return r.status == StatusConfirmed && r.ownerStatus == OwnerConfirmed
}

func (r *Reservation) Deletable() bool {
	return r.status == StatusPending || r.status == StatusCancelled
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) ResourceID() uuid.UUID       { return r.resourceID }
func (r *Reservation) RequesterID() uuid.UUID      { return r.requesterID }
func (r *Reservation) Interval() Interval          { return r.interval }
func (r *Reservation) Quote() Quote                { return r.quote }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) AdminStatus() AdminStatus    { return r.adminStatus }
func (r *Reservation) OwnerStatus() OwnerStatus    { return r.ownerStatus }
func (r *Reservation) CancellationReason() *string { return r.cancellationReason }
func (r *Reservation) NotifiedAt() *time.Time      { return r.notifiedAt }
func (r *Reservation) CreatedBy() uuid.UUID        { return r.createdBy }
func (r *Reservation) UpdatedBy() uuid.UUID        { return r.updatedBy }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
