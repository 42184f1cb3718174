package response

import (
	"bookcore/internal/usecase/queries"
)

type AvailabilityResponse struct {
	Available bool                       `json:"available"`
	Conflicts []queries.ConflictInterval `json:"conflicts,omitempty"`
}

func FromAvailabilityResult(rm *queries.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available: rm.Available,
		Conflicts: rm.Conflicts,
	}
}
