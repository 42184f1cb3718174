//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"bookcore/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hold(t *testing.T, status reservation.Status, start, end time.Duration) reservation.Hold {
	t.Helper()
	return reservation.Hold{
		ID:       uuid.New(),
		Interval: mustInterval(t, base.Add(start), base.Add(end)),
		Status:   status,
	}
}

func TestDecide(t *testing.T) {
	candidate := func(t *testing.T) reservation.Interval {
		return mustInterval(t, base, base.Add(2*time.Hour))
	}

	t.Run("no existing holds admits", func(t *testing.T) {
		d := reservation.Decide(1, candidate(t), nil)
		assert.True(t, d.Admit)
		assert.Empty(t, d.Conflicts)
	})

	t.Run("capacity 1 with one overlap rejects", func(t *testing.T) {
		h := hold(t, reservation.StatusConfirmed, time.Hour, 3*time.Hour)
		d := reservation.Decide(1, candidate(t), []reservation.Hold{h})
		assert.False(t, d.Admit)
		require.Len(t, d.Conflicts, 1)
		assert.Equal(t, h.ID, d.Conflicts[0].ID)
	})

	t.Run("capacity 2 with one overlap admits", func(t *testing.T) {
		h := hold(t, reservation.StatusActive, 0, 2*time.Hour)
		d := reservation.Decide(2, candidate(t), []reservation.Hold{h})
		assert.True(t, d.Admit)
	})

	t.Run("admit still reports the overlapping holds", func(t *testing.T) {
		h := hold(t, reservation.StatusConfirmed, time.Hour, 3*time.Hour)
		d := reservation.Decide(2, candidate(t), []reservation.Hold{h})
		assert.True(t, d.Admit)
		require.Len(t, d.Conflicts, 1)
		assert.Equal(t, h.ID, d.Conflicts[0].ID)
	})

	t.Run("capacity N fills exactly", func(t *testing.T) {
		holds := []reservation.Hold{
			hold(t, reservation.StatusConfirmed, 0, 2*time.Hour),
			hold(t, reservation.StatusConfirmed, 0, 2*time.Hour),
			hold(t, reservation.StatusActive, 0, 2*time.Hour),
		}
		d := reservation.Decide(3, candidate(t), holds)
		assert.False(t, d.Admit)
		assert.Len(t, d.Conflicts, 3)
	})

	t.Run("pending holds do not consume capacity", func(t *testing.T) {
		holds := []reservation.Hold{
			hold(t, reservation.StatusPending, 0, 2*time.Hour),
			hold(t, reservation.StatusCancelled, 0, 2*time.Hour),
			hold(t, reservation.StatusCompleted, 0, 2*time.Hour),
		}
		d := reservation.Decide(1, candidate(t), holds)
		assert.True(t, d.Admit)
	})

	t.Run("adjacent hold does not conflict", func(t *testing.T) {
		h := hold(t, reservation.StatusConfirmed, 2*time.Hour, 4*time.Hour)
		d := reservation.Decide(1, candidate(t), []reservation.Hold{h})
		assert.True(t, d.Admit)
	})

	t.Run("conflict list contains only overlapping blocking holds", func(t *testing.T) {
		overlapping := hold(t, reservation.StatusConfirmed, time.Hour, 3*time.Hour)
		holds := []reservation.Hold{
			overlapping,
			hold(t, reservation.StatusConfirmed, 5*time.Hour, 6*time.Hour),
			hold(t, reservation.StatusPending, 0, 2*time.Hour),
		}
		d := reservation.Decide(1, candidate(t), holds)
		assert.False(t, d.Admit)
		require.Len(t, d.Conflicts, 1)
		assert.Equal(t, overlapping.ID, d.Conflicts[0].ID)
	})
}
