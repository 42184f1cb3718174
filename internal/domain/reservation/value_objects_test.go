//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"bookcore/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func mustInterval(t *testing.T, start, end time.Time) reservation.Interval {
	t.Helper()
	iv, err := reservation.NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestNewInterval(t *testing.T) {
	t.Run("valid interval", func(t *testing.T) {
		iv, err := reservation.NewInterval(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, iv.Start())
		assert.Equal(t, base.Add(time.Hour), iv.End())
		assert.Equal(t, time.Hour, iv.Duration())
	})

	t.Run("zero-length interval rejected", func(t *testing.T) {
		_, err := reservation.NewInterval(base, base)
		require.ErrorIs(t, err, reservation.ErrInvalidInterval)
	})

	t.Run("inverted interval rejected", func(t *testing.T) {
		_, err := reservation.NewInterval(base.Add(time.Hour), base)
		require.ErrorIs(t, err, reservation.ErrInvalidInterval)
	})
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		a, b     [2]time.Duration
		overlaps bool
	}{
		{
			name:     "identical intervals",
			a:        [2]time.Duration{0, 2 * time.Hour},
			b:        [2]time.Duration{0, 2 * time.Hour},
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        [2]time.Duration{0, 2 * time.Hour},
			b:        [2]time.Duration{time.Hour, 3 * time.Hour},
			overlaps: true,
		},
		{
			name:     "containment",
			a:        [2]time.Duration{0, 4 * time.Hour},
			b:        [2]time.Duration{time.Hour, 2 * time.Hour},
			overlaps: true,
		},
		{
			name:     "adjacent: a ends where b starts",
			a:        [2]time.Duration{0, 2 * time.Hour},
			b:        [2]time.Duration{2 * time.Hour, 4 * time.Hour},
			overlaps: false,
		},
		{
			name:     "adjacent: b ends where a starts",
			a:        [2]time.Duration{2 * time.Hour, 4 * time.Hour},
			b:        [2]time.Duration{0, 2 * time.Hour},
			overlaps: false,
		},
		{
			name:     "disjoint",
			a:        [2]time.Duration{0, time.Hour},
			b:        [2]time.Duration{3 * time.Hour, 4 * time.Hour},
			overlaps: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := mustInterval(t, base.Add(c.a[0]), base.Add(c.a[1]))
			b := mustInterval(t, base.Add(c.b[0]), base.Add(c.b[1]))
			assert.Equal(t, c.overlaps, a.Overlaps(b))
			assert.Equal(t, c.overlaps, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestIntervalToTstzrange(t *testing.T) {
	iv := mustInterval(t, base, base.Add(time.Hour))
	assert.Equal(t, "[2026-06-01T10:00:00Z,2026-06-01T11:00:00Z)", iv.ToTstzrange())
}
