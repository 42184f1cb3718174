package rating

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's score for one resource. At most one exists per
// (resource, user) pair; resubmitting replaces the previous value.
type Rating struct {
	id         uuid.UUID
	resourceID uuid.UUID
	userID     uuid.UUID
	score      Score
	review     Review
	createdAt  time.Time
	updatedAt  time.Time
}

func NewRating(resourceID, userID uuid.UUID, scoreValue int, reviewText string) (*Rating, error) {
	score, err := NewScore(scoreValue)
	if err != nil {
		return nil, err
	}
	review, err := NewReview(reviewText)
	if err != nil {
		return nil, err
	}

	return &Rating{
		id:         uuid.New(),
		resourceID: resourceID,
		userID:     userID,
		score:      score,
		review:     review,
	}, nil
}

func ReconstructRating(
	id, resourceID, userID uuid.UUID,
	score Score,
	review Review,
	createdAt, updatedAt time.Time,
) *Rating {
	return &Rating{
		id:         id,
		resourceID: resourceID,
		userID:     userID,
		score:      score,
		review:     review,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Rating) ID() uuid.UUID         { return r.id }
func (r *Rating) ResourceID() uuid.UUID { return r.resourceID }
func (r *Rating) UserID() uuid.UUID     { return r.userID }
func (r *Rating) Score() Score          { return r.score }
func (r *Rating) Review() Review        { return r.review }
func (r *Rating) CreatedAt() time.Time  { return r.createdAt }
func (r *Rating) UpdatedAt() time.Time  { return r.updatedAt }
