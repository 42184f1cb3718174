package builder

import (
	"time"

	"bookcore/internal/domain/reservation"
	reqdto "bookcore/internal/handler/dto/request"

	"github.com/google/uuid"
)

// ReservationBuilder assembles reservation fixtures. Defaults describe a
// valid three day booking.
type ReservationBuilder struct {
	resourceID     uuid.UUID
	requesterID    uuid.UUID
	start          time.Time
	end            time.Time
	dailyRateCents int64
	surchargeCents int64
	discountCents  int64
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		resourceID:     uuid.New(),
		requesterID:    uuid.New(),
		start:          start,
		end:            start.Add(72 * time.Hour),
		dailyRateCents: 5000,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *ReservationBuilder) WithResourceID(id uuid.UUID) *ReservationBuilder {
	b.resourceID = id
	return b
}

func (b *ReservationBuilder) WithRequesterID(id uuid.UUID) *ReservationBuilder {
	b.requesterID = id
	return b
}

func (b *ReservationBuilder) WithInterval(start, end time.Time) *ReservationBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *ReservationBuilder) WithPricing(dailyRate, surcharge, discount int64) *ReservationBuilder {
	b.dailyRateCents = dailyRate
	b.surchargeCents = surcharge
	b.discountCents = discount
	return b
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ResourceID:     b.resourceID,
		StartTime:      b.start,
		EndTime:        b.end,
		DailyRateCents: b.dailyRateCents,
		SurchargeCents: b.surchargeCents,
		DiscountCents:  b.discountCents,
	}
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	iv, err := reservation.NewInterval(b.start, b.end)
	if err != nil {
		return nil, err
	}
	quote, err := reservation.NewQuote(reservation.PricingInputs{
		DailyRateCents: b.dailyRateCents,
		SurchargeCents: b.surchargeCents,
		DiscountCents:  b.discountCents,
	}, iv)
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(b.resourceID, b.requesterID, iv, quote), nil
}
