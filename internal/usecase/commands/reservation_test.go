//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookcore/internal/domain/actor"
	"bookcore/internal/domain/reservation"
	"bookcore/internal/domain/resource"
	"bookcore/internal/pkg/clock"
	"bookcore/internal/usecase/commands"
	"bookcore/internal/usecase/shared"
	"bookcore/tests/common/fake"
	notifymock "bookcore/tests/mock/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var base = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

type commandEnv struct {
	store    *fake.Store
	notifier *notifymock.MockNotifier
	clock    *clock.MockClock
	commands commands.ReservationCommands
}

func newCommandEnv(t *testing.T) *commandEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := fake.NewStore()
	notifier := notifymock.NewMockNotifier(ctrl)
	clk := clock.NewMockClock(base)
	return &commandEnv{
		store:    store,
		notifier: notifier,
		clock:    clk,
		commands: commands.NewReservationCommands(fake.NewUnitOfWork(store), notifier, clk),
	}
}

func (e *commandEnv) addResource(t *testing.T, capacity int) uuid.UUID {
	t.Helper()
	res, err := resource.NewResource(uuid.New(), "Cabin", capacity, uuid.New())
	require.NoError(t, err)
	e.store.AddResource(res)
	return res.ID()
}

func createParams(resourceID uuid.UUID, start, end time.Time) commands.CreateReservationParams {
	return commands.CreateReservationParams{
		ResourceID:     resourceID,
		RequesterID:    uuid.New(),
		StartTime:      start,
		EndTime:        end,
		DailyRateCents: 5000,
	}
}

// seedBlocking inserts a reservation already in the given blocking status.
func (e *commandEnv) seedBlocking(t *testing.T, resourceID uuid.UUID, status reservation.Status, start, end time.Time) uuid.UUID {
	t.Helper()
	iv, err := reservation.NewInterval(start, end)
	require.NoError(t, err)
	quote, err := reservation.NewQuote(reservation.PricingInputs{DailyRateCents: 5000}, iv)
	require.NoError(t, err)

	rsv := reservation.NewReservation(resourceID, uuid.New(), iv, quote)
	actorID := uuid.New()
	if status == reservation.StatusConfirmed || status == reservation.StatusActive {
		require.NoError(t, rsv.ChangeStatus(reservation.StatusConfirmed, nil, actorID))
	}
	if status == reservation.StatusActive {
		require.NoError(t, rsv.ChangeStatus(reservation.StatusActive, nil, actorID))
	}
	e.store.AddReservation(rsv)
	return rsv.ID()
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending reservation", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)

		id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(48*time.Hour)))
		require.NoError(t, err)

		stored, ok := env.store.Reservation(id)
		require.True(t, ok)
		assert.Equal(t, reservation.StatusPending, stored.Status())
		assert.Equal(t, int64(10000), stored.Quote().TotalCents)
	})

	t.Run("rejects when capacity is exhausted", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		blockingID := env.seedBlocking(t, resourceID, reservation.StatusConfirmed, base, base.Add(48*time.Hour))

		_, err := env.commands.CreateReservation(ctx, createParams(resourceID, base.Add(24*time.Hour), base.Add(72*time.Hour)))
		require.ErrorIs(t, err, commands.ErrReservationConflict)

		var conflict *commands.ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, blockingID, conflict.Conflicts[0].ReservationID)
	})

	t.Run("pending reservations do not block", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		env.seedBlocking(t, resourceID, reservation.StatusPending, base, base.Add(48*time.Hour))

		_, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(48*time.Hour)))
		require.NoError(t, err)
	})

	t.Run("capacity above one admits overlapping holds", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 2)
		env.seedBlocking(t, resourceID, reservation.StatusActive, base, base.Add(48*time.Hour))

		_, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(48*time.Hour)))
		require.NoError(t, err)
	})

	t.Run("adjacent reservation admitted", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		env.seedBlocking(t, resourceID, reservation.StatusConfirmed, base, base.Add(24*time.Hour))

		_, err := env.commands.CreateReservation(ctx, createParams(resourceID, base.Add(24*time.Hour), base.Add(48*time.Hour)))
		require.NoError(t, err)
	})

	t.Run("unknown resource", func(t *testing.T) {
		env := newCommandEnv(t)
		_, err := env.commands.CreateReservation(ctx, createParams(uuid.New(), base, base.Add(24*time.Hour)))
		require.ErrorIs(t, err, commands.ErrResourceNotFound)
	})

	t.Run("inverted interval", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		_, err := env.commands.CreateReservation(ctx, createParams(resourceID, base.Add(time.Hour), base))
		require.ErrorIs(t, err, commands.ErrInvalidInterval)
	})

	t.Run("negative pricing", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		params := createParams(resourceID, base, base.Add(24*time.Hour))
		params.DailyRateCents = -1
		_, err := env.commands.CreateReservation(ctx, params)
		require.ErrorIs(t, err, commands.ErrInvalidPricing)
	})
}

// Two overlapping reservations race for the last unit of capacity. Creates
// both succeed since pending does not block; the race is over the confirm
// step, where the per-resource lock serializes the capacity re-check.
// Exactly one confirmation may win.
func TestCreateReservationConcurrency(t *testing.T) {
	env := newCommandEnv(t)
	resourceID := env.addResource(t, 1)

	params1 := createParams(resourceID, base, base.Add(48*time.Hour))
	params2 := createParams(resourceID, base.Add(24*time.Hour), base.Add(72*time.Hour))

	var wg sync.WaitGroup
	results := make([]error, 2)
	ids := make([]uuid.UUID, 2)
	for i, p := range []commands.CreateReservationParams{params1, params2} {
		wg.Add(1)
		go func(i int, p commands.CreateReservationParams) {
			defer wg.Done()
			ids[i], results[i] = env.commands.CreateReservation(context.Background(), p)
		}(i, p)
	}
	wg.Wait()

	require.NoError(t, results[0])
	require.NoError(t, results[1])

	// Now race the two confirmations. Exactly one must win the overlap.
	confirmed := "confirmed"
	errs := make([]error, 2)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.commands.UpdateReservationStatus(context.Background(), ids[i],
				commands.UpdateReservationStatusParams{Status: &confirmed},
				actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, commands.ErrReservationConflict)
		}
	}
	assert.Equal(t, 1, winners, "exactly one confirmation must win the last capacity unit")
}

// readHookUoW wraps another unit of work and fires hook once, right after the
// first successful reservation read. It models work committed by another
// caller between this transaction's read and its write-back.
type readHookUoW struct {
	inner shared.UnitOfWork
	hook  func()
	fired bool
}

func (u *readHookUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, &readHookTx{Tx: tx, uow: u})
	})
}

type readHookTx struct {
	shared.Tx
	uow *readHookUoW
}

func (t *readHookTx) Reservations() shared.ReservationRepository {
	return &readHookReservationRepo{ReservationRepository: t.Tx.Reservations(), uow: t.uow}
}

type readHookReservationRepo struct {
	shared.ReservationRepository
	uow *readHookUoW
}

func (r *readHookReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	rsv, err := r.ReservationRepository.FindByID(ctx, id)
	if err == nil && !r.uow.fired {
		r.uow.fired = true
		r.uow.hook()
	}
	return rsv, err
}

// Cancelled and completed are terminal. A confirm that read the reservation
// before a cancellation committed must not write its stale triple back over
// the terminal state, and no confirmation may be sent for it.
func TestStaleConfirmCannotResurrectCancelled(t *testing.T) {
	ctx := context.Background()
	env := newCommandEnv(t)
	resourceID := env.addResource(t, 1)
	id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(48*time.Hour)))
	require.NoError(t, err)

	confirmed := "confirmed"
	cancelled := "cancelled"
	adminActor := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}

	hooked := commands.NewReservationCommands(&readHookUoW{
		inner: fake.NewUnitOfWork(env.store),
		hook: func() {
			require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
				commands.UpdateReservationStatusParams{
					Status:             &cancelled,
					CancellationReason: strptr("plans changed"),
				}, adminActor))
		},
	}, env.notifier, env.clock)

	// No EXPECT on the notifier: a send for the cancelled reservation fails
	// the test.
	err = hooked.UpdateReservationStatus(ctx, id,
		commands.UpdateReservationStatusParams{Status: &confirmed, OwnerStatus: &confirmed}, adminActor)
	require.ErrorIs(t, err, commands.ErrReservationConflict)

	stored, ok := env.store.Reservation(id)
	require.True(t, ok)
	assert.Equal(t, reservation.StatusCancelled, stored.Status())
	assert.False(t, env.store.Notified(id))
}

func TestUpdateReservationStatus(t *testing.T) {
	ctx := context.Background()
	adminActor := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	confirmed := "confirmed"
	active := "active"
	cancelled := "cancelled"

	create := func(t *testing.T, env *commandEnv, resourceID uuid.UUID) uuid.UUID {
		t.Helper()
		id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(48*time.Hour)))
		require.NoError(t, err)
		return id
	}

	t.Run("confirms along the chain", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id := create(t, env, resourceID)

		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed}, adminActor))

		stored, _ := env.store.Reservation(id)
		assert.Equal(t, reservation.StatusConfirmed, stored.Status())
	})

	t.Run("skipping ahead is illegal", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id := create(t, env, resourceID)

		err := env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &active}, adminActor)
		require.ErrorIs(t, err, commands.ErrIllegalTransition)
	})

	t.Run("transition into blocking re-checks capacity", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id := create(t, env, resourceID)

		// Another reservation became blocking after this one was admitted.
		env.seedBlocking(t, resourceID, reservation.StatusConfirmed, base, base.Add(48*time.Hour))

		err := env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed}, adminActor)
		require.ErrorIs(t, err, commands.ErrReservationConflict)

		stored, _ := env.store.Reservation(id)
		assert.Equal(t, reservation.StatusPending, stored.Status(), "rejected transition leaves status unchanged")
	})

	t.Run("cancellation requires a reason", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id := create(t, env, resourceID)

		err := env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &cancelled}, adminActor)
		require.ErrorIs(t, err, commands.ErrCancellationReason)

		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &cancelled, CancellationReason: strptr("schedule change")}, adminActor))

		stored, _ := env.store.Reservation(id)
		assert.Equal(t, reservation.StatusCancelled, stored.Status())
		require.NotNil(t, stored.CancellationReason())
		assert.Equal(t, "schedule change", *stored.CancellationReason())
	})

	t.Run("terminal reservations reject workflow updates", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id := create(t, env, resourceID)
		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &cancelled, CancellationReason: strptr("done")}, adminActor))

		ownerConfirmed := "confirmed"
		err := env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{OwnerStatus: &ownerConfirmed}, adminActor)
		require.ErrorIs(t, err, commands.ErrTerminalState)
	})

	t.Run("invalid status value", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id := create(t, env, resourceID)

		bogus := "unknown"
		err := env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &bogus}, adminActor)
		require.ErrorIs(t, err, commands.ErrInvalidStatusValue)
	})

	t.Run("not found", func(t *testing.T) {
		env := newCommandEnv(t)
		err := env.commands.UpdateReservationStatus(ctx, uuid.New(),
			commands.UpdateReservationStatusParams{Status: &confirmed}, adminActor)
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestConfirmationNotification(t *testing.T) {
	ctx := context.Background()
	adminActor := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	confirmed := "confirmed"
	active := "active"
	ownerConfirmed := "confirmed"

	setup := func(t *testing.T) (*commandEnv, uuid.UUID) {
		t.Helper()
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(48*time.Hour)))
		require.NoError(t, err)
		return env, id
	}

	t.Run("sent once when the triple finalizes", func(t *testing.T) {
		env, id := setup(t)
		env.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		// Owner confirmation alone does not finalize: status is still pending.
		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{OwnerStatus: &ownerConfirmed}, adminActor))

		// Status confirmation completes the condition and triggers the send.
		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed}, adminActor))

		assert.True(t, env.store.Notified(id))
	})

	t.Run("claim stamped with the injected clock", func(t *testing.T) {
		env, id := setup(t)
		env.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
		env.clock.Set(base.Add(26 * time.Hour))

		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed, OwnerStatus: &ownerConfirmed}, adminActor))

		at, ok := env.store.NotifiedAt(id)
		require.True(t, ok)
		assert.True(t, at.Equal(base.Add(26*time.Hour)))
	})

	t.Run("not re-sent on later updates", func(t *testing.T) {
		env, id := setup(t)
		env.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed, OwnerStatus: &ownerConfirmed}, adminActor))

		// Leaving and conditions changing later must not trigger another send.
		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &active}, adminActor))
	})

	t.Run("no send while only partially approved", func(t *testing.T) {
		env, id := setup(t)
		// No EXPECT: any Send call fails the test.

		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed}, adminActor))
	})

	t.Run("send failure does not fail the update", func(t *testing.T) {
		env, id := setup(t)
		env.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError).Times(1)

		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed, OwnerStatus: &ownerConfirmed}, adminActor))
	})
}

func TestDeleteReservation(t *testing.T) {
	ctx := context.Background()
	adminActor := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	confirmed := "confirmed"
	cancelled := "cancelled"

	t.Run("pending reservation deleted", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(24*time.Hour)))
		require.NoError(t, err)

		require.NoError(t, env.commands.DeleteReservation(ctx, id, adminActor))
		_, ok := env.store.Reservation(id)
		assert.False(t, ok)
	})

	t.Run("cancelled reservation deleted", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(24*time.Hour)))
		require.NoError(t, err)
		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &cancelled, CancellationReason: strptr("nevermind")}, adminActor))

		require.NoError(t, env.commands.DeleteReservation(ctx, id, adminActor))
	})

	t.Run("confirmed reservation not deletable", func(t *testing.T) {
		env := newCommandEnv(t)
		resourceID := env.addResource(t, 1)
		id, err := env.commands.CreateReservation(ctx, createParams(resourceID, base, base.Add(24*time.Hour)))
		require.NoError(t, err)
		require.NoError(t, env.commands.UpdateReservationStatus(ctx, id,
			commands.UpdateReservationStatusParams{Status: &confirmed}, adminActor))

		err = env.commands.DeleteReservation(ctx, id, adminActor)
		require.ErrorIs(t, err, commands.ErrNotDeletable)

		_, ok := env.store.Reservation(id)
		assert.True(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		env := newCommandEnv(t)
		err := env.commands.DeleteReservation(ctx, uuid.New(), adminActor)
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}
