package builder

import (
	"bookcore/internal/domain/rating"
	reqdto "bookcore/internal/handler/dto/request"

	"github.com/google/uuid"
)

type RatingBuilder struct {
	resourceID uuid.UUID
	userID     uuid.UUID
	score      int
	review     string
}

func NewRatingBuilder() *RatingBuilder {
	return &RatingBuilder{
		resourceID: uuid.New(),
		userID:     uuid.New(),
		score:      5,
		review:     "Excellent stay!",
	}
}

func (b *RatingBuilder) With(mutate func(*RatingBuilder)) *RatingBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *RatingBuilder) WithResourceID(id uuid.UUID) *RatingBuilder {
	b.resourceID = id
	return b
}

func (b *RatingBuilder) WithUserID(id uuid.UUID) *RatingBuilder {
	b.userID = id
	return b
}

func (b *RatingBuilder) WithScore(score int) *RatingBuilder {
	b.score = score
	return b
}

func (b *RatingBuilder) WithReview(review string) *RatingBuilder {
	b.review = review
	return b
}

func (b *RatingBuilder) BuildSubmitRequestDTO() reqdto.SubmitRatingRequest {
	return reqdto.SubmitRatingRequest{
		Score:  b.score,
		Review: b.review,
	}
}

func (b *RatingBuilder) BuildDomain() (*rating.Rating, error) {
	return rating.NewRating(b.resourceID, b.userID, b.score, b.review)
}
