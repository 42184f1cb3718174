package fake

import (
	"context"
	"sync"
	"time"

	"bookcore/internal/domain/rating"
	"bookcore/internal/domain/reservation"
	"bookcore/internal/domain/resource"
	"bookcore/internal/infra"
	"bookcore/internal/usecase/shared"

	"github.com/google/uuid"
)

type ratingKey struct {
	resourceID uuid.UUID
	userID     uuid.UUID
}

// Store is an in-memory stand-in for the database shared by fake
// transactions. Advisory locks are per-resource mutexes held until the end of
// Within, mirroring pg_advisory_xact_lock.
type Store struct {
	mu           sync.Mutex
	resources    map[uuid.UUID]*resource.Resource
	reservations map[uuid.UUID]*reservation.Reservation
	notified     map[uuid.UUID]time.Time
	ratings      map[ratingKey]*rating.Rating

	lockMu sync.Mutex
	locks  map[uuid.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		resources:    make(map[uuid.UUID]*resource.Resource),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		notified:     make(map[uuid.UUID]time.Time),
		ratings:      make(map[ratingKey]*rating.Rating),
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) AddResource(res *resource.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[res.ID()] = res
}

func (s *Store) AddReservation(rsv *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[rsv.ID()] = cloneReservation(rsv)
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rsv, ok := s.reservations[id]
	if !ok {
		return nil, false
	}
	return cloneReservation(rsv), true
}

func (s *Store) Resource(id uuid.UUID) (*resource.Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.resources[id]
	return res, ok
}

func (s *Store) Rating(resourceID, userID uuid.UUID) (*rating.Rating, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[ratingKey{resourceID, userID}]
	return r, ok
}

func (s *Store) Notified(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[id]
	return ok
}

func (s *Store) NotifiedAt(id uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.notified[id]
	return at, ok
}

func (s *Store) resourceLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	if _, ok := s.locks[id]; !ok {
		s.locks[id] = &sync.Mutex{}
	}
	return s.locks[id]
}

func cloneReservation(rsv *reservation.Reservation) *reservation.Reservation {
	var reason *string
	if rsv.CancellationReason() != nil {
		r := *rsv.CancellationReason()
		reason = &r
	}
	var notifiedAt *time.Time
	if rsv.NotifiedAt() != nil {
		t := *rsv.NotifiedAt()
		notifiedAt = &t
	}
	return reservation.ReconstructReservation(
		rsv.ID(), rsv.ResourceID(), rsv.RequesterID(), rsv.Interval(), rsv.Quote(),
		rsv.Status(), rsv.AdminStatus(), rsv.OwnerStatus(),
		reason, notifiedAt, rsv.CreatedBy(), rsv.UpdatedBy(), rsv.CreatedAt(), rsv.UpdatedAt(),
	)
}

// UnitOfWork implements shared.UnitOfWork against a Store. No retry loop: the
// fake never produces serialization failures.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &fakeTx{store: u.store}
	err := fn(ctx, tx)

	u.store.mu.Lock()
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
	}
	u.store.mu.Unlock()

	tx.releaseLocks()

	if err != nil {
		return err
	}
	for _, hook := range tx.afterCommit {
		hook(ctx)
	}
	return nil
}

type fakeTx struct {
	store       *Store
	held        []*sync.Mutex
	undo        []func()
	afterCommit []func(ctx context.Context)
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{tx: t} }
func (t *fakeTx) Resources() shared.ResourceRepository       { return &fakeResourceRepo{tx: t} }
func (t *fakeTx) Ratings() shared.RatingRepository           { return &fakeRatingRepo{tx: t} }

func (t *fakeTx) AfterCommit(hook func(ctx context.Context)) {
	t.afterCommit = append(t.afterCommit, hook)
}

func (t *fakeTx) releaseLocks() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

type fakeReservationRepo struct {
	tx *fakeTx
}

func (r *fakeReservationRepo) Create(_ context.Context, rsv *reservation.Reservation) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[rsv.ID()]; ok {
		return infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	id := rsv.ID()
	s.reservations[id] = cloneReservation(rsv)
	r.tx.undo = append(r.tx.undo, func() { delete(s.reservations, id) })
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	rsv, ok := s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return cloneReservation(rsv), nil
}

func (r *fakeReservationRepo) FindBlockingHolds(_ context.Context, resourceID uuid.UUID, iv reservation.Interval, excludeID uuid.UUID) ([]reservation.Hold, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var holds []reservation.Hold
	for _, rsv := range s.reservations {
		if rsv.ResourceID() != resourceID || rsv.ID() == excludeID {
			continue
		}
		if !rsv.Status().IsBlocking() {
			continue
		}
		if iv.Overlaps(rsv.Interval()) {
			holds = append(holds, reservation.Hold{
				ID:       rsv.ID(),
				Interval: rsv.Interval(),
				Status:   rsv.Status(),
			})
		}
	}
	return holds, nil
}

func (r *fakeReservationRepo) UpdateWorkflow(_ context.Context, rsv *reservation.Reservation, loaded reservation.Status) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.reservations[rsv.ID()]
	if !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	if prev.Status() != loaded {
		return infra.WrapRepoErr("reservation status changed concurrently", nil, infra.KindConflict)
	}
	id := rsv.ID()
	s.reservations[id] = cloneReservation(rsv)
	r.tx.undo = append(r.tx.undo, func() { s.reservations[id] = prev })
	return nil
}

func (r *fakeReservationRepo) ClaimNotification(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notified[id]; ok {
		return false, nil
	}
	s.notified[id] = at
	r.tx.undo = append(r.tx.undo, func() { delete(s.notified, id) })
	return true, nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.reservations[id]
	if !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	delete(s.reservations, id)
	r.tx.undo = append(r.tx.undo, func() { s.reservations[id] = prev })
	return nil
}

type fakeResourceRepo struct {
	tx *fakeTx
}

func (r *fakeResourceRepo) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}
	return res, nil
}

func (r *fakeResourceRepo) AcquireIntervalLock(_ context.Context, resourceID uuid.UUID) error {
	l := r.tx.store.resourceLock(resourceID)
	l.Lock()
	r.tx.held = append(r.tx.held, l)
	return nil
}

type fakeRatingRepo struct {
	tx *fakeTx
}

func (r *fakeRatingRepo) Upsert(_ context.Context, rt *rating.Rating) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{rt.ResourceID(), rt.UserID()}
	prev, existed := s.ratings[key]
	s.ratings[key] = rt
	r.tx.undo = append(r.tx.undo, func() {
		if existed {
			s.ratings[key] = prev
		} else {
			delete(s.ratings, key)
		}
	})
	return nil
}

func (r *fakeRatingRepo) Delete(_ context.Context, resourceID, userID uuid.UUID) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{resourceID, userID}
	prev, ok := s.ratings[key]
	if !ok {
		return infra.WrapRepoErr("rating not found", nil, infra.KindNotFound)
	}
	delete(s.ratings, key)
	r.tx.undo = append(r.tx.undo, func() { s.ratings[key] = prev })
	return nil
}

func (r *fakeRatingRepo) RecalcAggregate(_ context.Context, resourceID uuid.UUID) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.resources[resourceID]
	if !ok {
		return infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}

	var scores []int
	for key, rt := range s.ratings {
		if key.resourceID == resourceID {
			scores = append(scores, rt.Score().Value())
		}
	}
	agg := rating.ComputeAggregate(scores)
	s.resources[resourceID] = resource.ReconstructResource(
		prev.ID(), prev.Name(), prev.Capacity(), prev.OwnerID(),
		resource.RatingAggregate{AverageRating: agg.AverageRating, TotalRatings: agg.TotalRatings},
		prev.CreatedAt(), prev.UpdatedAt(),
	)
	r.tx.undo = append(r.tx.undo, func() { s.resources[resourceID] = prev })
	return nil
}
