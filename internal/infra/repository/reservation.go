package repository

import (
	"context"
	"time"

	"bookcore/internal/domain/reservation"
	"bookcore/internal/infra"
	"bookcore/internal/infra/db"

	"github.com/google/uuid"
)

type ReservationRepository struct {
	dbx db.DB
}

func NewReservationRepository(dbx db.DB) *ReservationRepository {
	return &ReservationRepository{dbx: dbx}
}

func (r *ReservationRepository) Create(ctx context.Context, rsv *reservation.Reservation) error {
	q := rsv.Quote()
	_, err := r.dbx.Exec(ctx,
		`INSERT INTO reservations (
			id, resource_id, requester_id, start_time, end_time,
			daily_rate_cents, days, subtotal_cents, surcharge_cents, discount_cents, total_cents,
			status, admin_status, owner_status, created_by, updated_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		rsv.ID(), rsv.ResourceID(), rsv.RequesterID(), rsv.Interval().Start(), rsv.Interval().End(),
		q.DailyRateCents, q.Days, q.SubtotalCents, q.SurchargeCents, q.DiscountCents, q.TotalCents,
		rsv.Status().String(), rsv.AdminStatus().String(), rsv.OwnerStatus().String(),
		rsv.CreatedBy(), rsv.UpdatedBy(),
	)
	if err != nil {
		return wrapPgErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.dbx.QueryRow(ctx,
		`SELECT id, resource_id, requester_id, start_time, end_time,
		        daily_rate_cents, days, subtotal_cents, surcharge_cents, discount_cents, total_cents,
		        status, admin_status, owner_status, cancellation_reason, notified_at,
		        created_by, updated_by, created_at, updated_at
		   FROM reservations
		  WHERE id = $1
		    FOR UPDATE`,
		id,
	)

	var (
		rsvID, resourceID, requesterID, createdBy, updatedBy uuid.UUID
		start, end, createdAt, updatedAt                     time.Time
		quote                                                reservation.Quote
		status, adminStatus, ownerStatus                     string
		cancellationReason                                   *string
		notifiedAt                                           *time.Time
	)
	if err := row.Scan(
		&rsvID, &resourceID, &requesterID, &start, &end,
		&quote.DailyRateCents, &quote.Days, &quote.SubtotalCents, &quote.SurchargeCents, &quote.DiscountCents, &quote.TotalCents,
		&status, &adminStatus, &ownerStatus, &cancellationReason, &notifiedAt,
		&createdBy, &updatedBy, &createdAt, &updatedAt,
	); err != nil {
		return nil, wrapPgErr("failed to find reservation", err)
	}

	iv, err := reservation.NewInterval(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid interval", err)
	}

	return reservation.ReconstructReservation(
		rsvID, resourceID, requesterID, iv, quote,
		reservation.Status(status), reservation.AdminStatus(adminStatus), reservation.OwnerStatus(ownerStatus),
		cancellationReason, notifiedAt, createdBy, updatedBy, createdAt, updatedAt,
	), nil
}

func (r *ReservationRepository) FindBlockingHolds(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval, excludeID uuid.UUID) ([]reservation.Hold, error) {
	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}

	rows, err := r.dbx.Query(ctx,
		`SELECT id, start_time, end_time, status
		   FROM reservations
		  WHERE resource_id = $1
		    AND status IN ('confirmed', 'active')
		    AND start_time < $3
		    AND $2 < end_time
		    AND ($4::uuid IS NULL OR id <> $4)`,
		resourceID, iv.Start(), iv.End(), exclude,
	)
	if err != nil {
		return nil, wrapPgErr("failed to find overlapping reservations", err)
	}
	defer rows.Close()

	var holds []reservation.Hold
	for rows.Next() {
		var (
			id         uuid.UUID
			start, end time.Time
			status     string
		)
		if err := rows.Scan(&id, &start, &end, &status); err != nil {
			return nil, wrapPgErr("failed to scan overlapping reservation", err)
		}
		holdIv, ivErr := reservation.NewInterval(start, end)
		if ivErr != nil {
			return nil, infra.WrapRepoErr("stored reservation has invalid interval", ivErr)
		}
		holds = append(holds, reservation.Hold{
			ID:       id,
			Interval: holdIv,
			Status:   reservation.Status(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to read overlapping reservations", err)
	}

	return holds, nil
}

func (r *ReservationRepository) UpdateWorkflow(ctx context.Context, rsv *reservation.Reservation, loaded reservation.Status) error {
	tag, err := r.dbx.Exec(ctx,
		`UPDATE reservations
		    SET status = $2,
		        admin_status = $3,
		        owner_status = $4,
		        cancellation_reason = $5,
		        updated_by = $6,
		        updated_at = now()
		  WHERE id = $1 AND status = $7`,
		rsv.ID(), rsv.Status().String(), rsv.AdminStatus().String(), rsv.OwnerStatus().String(),
		rsv.CancellationReason(), rsv.UpdatedBy(), loaded.String(),
	)
	if err != nil {
		return wrapPgErr("failed to update reservation workflow", err)
	}
	// The row lock taken by FindByID makes a status mismatch here mean a
	// concurrent change, not a missing row.
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

func (r *ReservationRepository) ClaimNotification(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.dbx.Exec(ctx,
		`UPDATE reservations
		    SET notified_at = $2
		  WHERE id = $1 AND notified_at IS NULL`,
		id, at,
	)
	if err != nil {
		return false, wrapPgErr("failed to claim notification", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.dbx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return wrapPgErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
