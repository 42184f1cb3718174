package readstore

import (
	"context"
	"time"

	"bookcore/internal/domain/reservation"
	"bookcore/internal/infra"
	"bookcore/internal/infra/db"
	"bookcore/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationReadStore struct {
	dbx db.DB
}

func NewReservationReadStore(dbx db.DB) *ReservationReadStore {
	return &ReservationReadStore{dbx: dbx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row := r.dbx.QueryRow(ctx,
		`SELECT rv.id, rv.resource_id, rs.name, rv.requester_id, rv.start_time, rv.end_time,
		        rv.status, rv.admin_status, rv.owner_status,
		        rv.daily_rate_cents, rv.days, rv.subtotal_cents, rv.surcharge_cents, rv.discount_cents, rv.total_cents,
		        rv.cancellation_reason, rv.created_at, rv.updated_at
		   FROM reservations rv
		   JOIN resources rs ON rs.id = rv.resource_id
		  WHERE rv.id = $1`,
		id,
	)

	var view queries.ReservationView
	if err := row.Scan(
		&view.ID, &view.ResourceID, &view.ResourceName, &view.RequesterID, &view.StartTime, &view.EndTime,
		&view.Status, &view.AdminStatus, &view.OwnerStatus,
		&view.DailyRateCents, &view.Days, &view.SubtotalCents, &view.SurchargeCents, &view.DiscountCents, &view.TotalCents,
		&view.CancellationReason, &view.CreatedAt, &view.UpdatedAt,
	); err != nil {
		return nil, wrapPgErr("failed to find reservation view", err)
	}
	return &view, nil
}

func (r *ReservationReadStore) FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]*queries.ReservationListItem, error) {
	rows, err := r.dbx.Query(ctx,
		`SELECT rv.id, rv.resource_id, rs.name, rv.start_time, rv.end_time, rv.status, rv.total_cents, rv.created_at
		   FROM reservations rv
		   JOIN resources rs ON rs.id = rv.resource_id
		  WHERE rv.requester_id = $1
		  ORDER BY rv.created_at DESC, rv.id DESC`,
		requesterID,
	)
	if err != nil {
		return nil, wrapPgErr("failed to list reservations", err)
	}
	defer rows.Close()

	var items []*queries.ReservationListItem
	for rows.Next() {
		var item queries.ReservationListItem
		if err := rows.Scan(
			&item.ID, &item.ResourceID, &item.ResourceName, &item.StartTime, &item.EndTime,
			&item.Status, &item.TotalCents, &item.CreatedAt,
		); err != nil {
			return nil, wrapPgErr("failed to scan reservation list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to read reservation list", err)
	}
	return items, nil
}

// FindBlockingHolds reads a snapshot without locks. The authoritative overlap
// check lives on the write path inside the reservation transaction.
func (r *ReservationReadStore) FindBlockingHolds(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]reservation.Hold, error) {
	rows, err := r.dbx.Query(ctx,
		`SELECT id, start_time, end_time, status
		   FROM reservations
		  WHERE resource_id = $1
		    AND status IN ('confirmed', 'active')
		    AND start_time < $3
		    AND $2 < end_time`,
		resourceID, iv.Start(), iv.End(),
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
