package response

import (
	"time"

	"bookcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID                 uuid.UUID `json:"id"`
	ResourceID         uuid.UUID `json:"resourceId"`
	ResourceName       string    `json:"resourceName"`
	RequesterID        uuid.UUID `json:"requesterId"`
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	Status             string    `json:"status"`
	AdminStatus        string    `json:"adminStatus"`
	OwnerStatus        string    `json:"ownerStatus"`
	DailyRateCents     int64     `json:"dailyRateCents"`
	Days               int32     `json:"days"`
	SubtotalCents      int64     `json:"subtotalCents"`
	SurchargeCents     int64     `json:"surchargeCents"`
	DiscountCents      int64     `json:"discountCents"`
	TotalCents         int64     `json:"totalCents"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"totalCents"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReservationCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type ConflictDetail struct {
	Conflicts []queries.ConflictInterval `json:"conflicts"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromReservationListItem(rm *queries.ReservationListItem) *ReservationListResponse {
	var resp ReservationListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
