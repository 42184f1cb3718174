package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID     uuid.UUID `json:"resource_id" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	DailyRateCents int64     `json:"daily_rate_cents" binding:"required,min=0"`
	SurchargeCents int64     `json:"surcharge_cents" binding:"min=0"`
	DiscountCents  int64     `json:"discount_cents" binding:"min=0"`
}

// UpdateReservationStatusRequest carries a partial update: each workflow
// dimension is applied only when present.
type UpdateReservationStatusRequest struct {
	Status             *string `json:"status,omitempty"`
	AdminStatus        *string `json:"admin_status,omitempty"`
	OwnerStatus        *string `json:"owner_status,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}
