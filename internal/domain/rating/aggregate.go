package rating

import "math"

// Aggregate is the denormalized summary derived from all ratings of a
// resource. An empty rating set yields the zero Aggregate.
type Aggregate struct {
	AverageRating float64
	TotalRatings  int32
}

// ComputeAggregate derives the summary from raw scores. The average is
// rounded to one decimal place.
func ComputeAggregate(scores []int) Aggregate {
	if len(scores) == 0 {
		return Aggregate{}
	}

	var sum int
	for _, s := range scores {
		sum += s
	}
	mean := float64(sum) / float64(len(scores))

	return Aggregate{
		AverageRating: math.Round(mean*10) / 10,
		TotalRatings:  int32(len(scores)),
	}
}
