//go:build unit

package reservation_test

import (
	"testing"

	"bookcore/internal/domain/reservation"
	"bookcore/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNewReservation(t *testing.T) {
	rsv, err := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rsv.ID())
	assert.Equal(t, reservation.StatusPending, rsv.Status())
	assert.Equal(t, reservation.AdminPending, rsv.AdminStatus())
	assert.Equal(t, reservation.OwnerPending, rsv.OwnerStatus())
	assert.Nil(t, rsv.CancellationReason())
	assert.Nil(t, rsv.NotifiedAt())
	assert.Equal(t, rsv.RequesterID(), rsv.CreatedBy())
	assert.False(t, rsv.Finalized())
	assert.True(t, rsv.Deletable())
}

func TestChangeStatus(t *testing.T) {
	actorID := uuid.New()

	t.Run("walks the full chain", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, rsv.ChangeStatus(reservation.StatusConfirmed, nil, actorID))
		require.NoError(t, rsv.ChangeStatus(reservation.StatusActive, nil, actorID))
		require.NoError(t, rsv.ChangeStatus(reservation.StatusCompleted, nil, actorID))
		assert.Equal(t, reservation.StatusCompleted, rsv.Status())
		assert.Equal(t, actorID, rsv.UpdatedBy())
	})

	t.Run("rejects skipping ahead", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		err = rsv.ChangeStatus(reservation.StatusActive, nil, actorID)
		require.ErrorIs(t, err, reservation.ErrIllegalTransition)
		assert.Equal(t, reservation.StatusPending, rsv.Status())
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, rsv.ChangeStatus(reservation.StatusCancelled, nil, actorID), reservation.ErrCancellationReasonRequired)
		require.ErrorIs(t, rsv.ChangeStatus(reservation.StatusCancelled, strptr("   "), actorID), reservation.ErrCancellationReasonRequired)

		require.NoError(t, rsv.ChangeStatus(reservation.StatusCancelled, strptr("  requester changed plans  "), actorID))
		require.NotNil(t, rsv.CancellationReason())
		assert.Equal(t, "requester changed plans", *rsv.CancellationReason())
	})

	t.Run("cancel reachable from every non-terminal state", func(t *testing.T) {
		for _, setup := range [][]reservation.Status{
			{},
			{reservation.StatusConfirmed},
			{reservation.StatusConfirmed, reservation.StatusActive},
		} {
			rsv, err := builder.NewReservationBuilder().BuildDomain()
			require.NoError(t, err)
			for _, s := range setup {
				require.NoError(t, rsv.ChangeStatus(s, nil, actorID))
			}
			require.NoError(t, rsv.ChangeStatus(reservation.StatusCancelled, strptr("no longer needed"), actorID))
		}
	})

	t.Run("terminal state blocks everything", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, rsv.ChangeStatus(reservation.StatusCancelled, strptr("done"), actorID))

		require.ErrorIs(t, rsv.ChangeStatus(reservation.StatusConfirmed, nil, actorID), reservation.ErrTerminalState)
		require.ErrorIs(t, rsv.SetAdminStatus(reservation.AdminCompleted, actorID), reservation.ErrTerminalState)
		require.ErrorIs(t, rsv.SetOwnerStatus(reservation.OwnerConfirmed, actorID), reservation.ErrTerminalState)
	})
}

func TestFinalized(t *testing.T) {
	actorID := uuid.New()

	t.Run("requires confirmed status and owner confirmation", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		assert.False(t, rsv.Finalized())

		require.NoError(t, rsv.ChangeStatus(reservation.StatusConfirmed, nil, actorID))
		assert.False(t, rsv.Finalized())

		require.NoError(t, rsv.SetOwnerStatus(reservation.OwnerConfirmed, actorID))
		assert.True(t, rsv.Finalized())
	})

	t.Run("admin status does not participate", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, rsv.SetOwnerStatus(reservation.OwnerConfirmed, actorID))
		require.NoError(t, rsv.SetAdminStatus(reservation.AdminCompleted, actorID))
		assert.False(t, rsv.Finalized(), "still pending overall")
	})

	t.Run("moving past confirmed leaves the finalized condition", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, rsv.ChangeStatus(reservation.StatusConfirmed, nil, actorID))
		require.NoError(t, rsv.SetOwnerStatus(reservation.OwnerConfirmed, actorID))
		require.True(t, rsv.Finalized())

		require.NoError(t, rsv.ChangeStatus(reservation.StatusActive, nil, actorID))
		assert.False(t, rsv.Finalized())
	})
}

func TestDeletable(t *testing.T) {
	actorID := uuid.New()

	rsv, err := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, err)
	assert.True(t, rsv.Deletable(), "pending is deletable")

	require.NoError(t, rsv.ChangeStatus(reservation.StatusConfirmed, nil, actorID))
	assert.False(t, rsv.Deletable())

	require.NoError(t, rsv.ChangeStatus(reservation.StatusCancelled, strptr("mistake"), actorID))
	assert.True(t, rsv.Deletable(), "cancelled is deletable")

	active, err := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, err)
	require.NoError(t, active.ChangeStatus(reservation.StatusConfirmed, nil, actorID))
	require.NoError(t, active.ChangeStatus(reservation.StatusActive, nil, actorID))
	assert.False(t, active.Deletable())

	require.NoError(t, active.ChangeStatus(reservation.StatusCompleted, nil, actorID))
	assert.False(t, active.Deletable(), "completed is terminal but not deletable")
}
