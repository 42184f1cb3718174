package reservation

import (
	"errors"
	"time"
)

var (
	ErrNegativePricingInput = errors.New("pricing inputs cannot be negative")
	ErrNegativeTotal        = errors.New("reservation total cannot be negative")
)

const dayLength = 24 * time.Hour

type PricingInputs struct {
	DailyRateCents int64
	SurchargeCents int64
	DiscountCents  int64
}

func (p PricingInputs) validate() error {
	if p.DailyRateCents < 0 || p.SurchargeCents < 0 || p.DiscountCents < 0 {
		return ErrNegativePricingInput
	}
	return nil
}

// Quote is the immutable pricing snapshot captured at creation time.
// Total is a pure function of the other fields.
type Quote struct {
	DailyRateCents int64
	Days           int32
	SubtotalCents  int64
	SurchargeCents int64
	DiscountCents  int64
	TotalCents     int64
}

// NewQuote prices an interval: days are billed whole, rounded up.
func NewQuote(inputs PricingInputs, iv Interval) (Quote, error) {
	if err := inputs.validate(); err != nil {
		return Quote{}, err
	}

	days := int32((iv.Duration() + dayLength - 1) / dayLength)
	subtotal := inputs.DailyRateCents * int64(days)
	total := subtotal + inputs.SurchargeCents - inputs.DiscountCents
	if total < 0 {
		return Quote{}, ErrNegativeTotal
	}

	return Quote{
		DailyRateCents: inputs.DailyRateCents,
		Days:           days,
		SubtotalCents:  subtotal,
		SurchargeCents: inputs.SurchargeCents,
		DiscountCents:  inputs.DiscountCents,
		TotalCents:     total,
	}, nil
}
