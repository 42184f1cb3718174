package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidCapacity     = errors.New("capacity must be a positive integer")
)

const MaxResourceNameLength = 255

// RatingAggregate is the denormalized rating summary cached on the resource.
type RatingAggregate struct {
	AverageRating float64
	TotalRatings  int32
}

// Resource is a bookable unit with finite integer capacity over time:
// capacity 1 for a single vehicle, N for a room type with N identical rooms.
type Resource struct {
	id        uuid.UUID
	name      string
	capacity  int
	ownerID   uuid.UUID
	rating    RatingAggregate
	createdAt time.Time
	updatedAt time.Time
}

func NewResource(id uuid.UUID, name string, capacity int, ownerID uuid.UUID) (*Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return nil, ErrResourceNameTooLong
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Resource{
		id:       id,
		name:     name,
		capacity: capacity,
		ownerID:  ownerID,
	}, nil
}

func ReconstructResource(
	id uuid.UUID,
	name string,
	capacity int,
	ownerID uuid.UUID,
	rating RatingAggregate,
	createdAt, updatedAt time.Time,
) *Resource {
	return &Resource{
		id:        id,
		name:      name,
		capacity:  capacity,
		ownerID:   ownerID,
		rating:    rating,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Resource) ID() uuid.UUID           { return r.id }
func (r *Resource) Name() string            { return r.name }
func (r *Resource) Capacity() int           { return r.capacity }
func (r *Resource) OwnerID() uuid.UUID      { return r.ownerID }
func (r *Resource) Rating() RatingAggregate { return r.rating }
func (r *Resource) CreatedAt() time.Time    { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time    { return r.updatedAt }
