//go:build unit

package resource_test

import (
	"strings"
	"testing"

	"bookcore/internal/domain/resource"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	ownerID := uuid.New()

	t.Run("valid resource", func(t *testing.T) {
		r, err := resource.NewResource(uuid.New(), "  Conference Room A  ", 3, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "Conference Room A", r.Name())
		assert.Equal(t, 3, r.Capacity())
		assert.Equal(t, ownerID, r.OwnerID())
		assert.Zero(t, r.Rating())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := resource.NewResource(uuid.New(), "   ", 1, ownerID)
		require.ErrorIs(t, err, resource.ErrEmptyResourceName)
	})

	t.Run("name too long rejected", func(t *testing.T) {
		_, err := resource.NewResource(uuid.New(), strings.Repeat("a", resource.MaxResourceNameLength+1), 1, ownerID)
		require.ErrorIs(t, err, resource.ErrResourceNameTooLong)
	})

	t.Run("capacity must be positive", func(t *testing.T) {
		for _, capacity := range []int{0, -1} {
			_, err := resource.NewResource(uuid.New(), "Van", capacity, ownerID)
			require.ErrorIs(t, err, resource.ErrInvalidCapacity)
		}
	})
}
