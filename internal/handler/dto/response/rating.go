package response

import (
	"bookcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RatingSummaryResponse struct {
	ResourceID    uuid.UUID `json:"resourceId"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int32     `json:"totalRatings"`
}

type RatingSubmittedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromRatingSummary(rm *queries.RatingSummary) *RatingSummaryResponse {
	var resp RatingSummaryResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
