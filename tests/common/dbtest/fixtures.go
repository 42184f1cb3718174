//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixed reference resources available to every e2e suite.
var (
	ResourceLoftID   = uuid.MustParse("6f6e0a3a-1df0-4a3e-9d5a-111111111111")
	ResourceHallID   = uuid.MustParse("6f6e0a3a-1df0-4a3e-9d5a-222222222222")
	ResourceStudioID = uuid.MustParse("6f6e0a3a-1df0-4a3e-9d5a-333333333333")

	OwnerID = uuid.MustParse("6f6e0a3a-1df0-4a3e-9d5a-aaaaaaaaaaaa")
)

func CreateTestResource(t *testing.T, db DBLike, name string, capacity int) uuid.UUID {
	t.Helper()

	resourceID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO resources (id, name, capacity, owner_id) VALUES ($1, $2, $3, $4)",
		resourceID, name, capacity, OwnerID)
	require.NoError(t, err)

	return resourceID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	seed := []struct {
		id       uuid.UUID
		name     string
		capacity int
	}{
		{ResourceLoftID, "Downtown Loft", 1},
		{ResourceHallID, "Exhibition Hall", 2},
		{ResourceStudioID, "Recording Studio", 3},
	}
	for _, r := range seed {
		_, err := pool.Exec(ctx,
			"INSERT INTO resources (id, name, capacity, owner_id) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
			r.id, r.name, r.capacity, OwnerID)
		if err != nil {
			return err
		}
	}
	return nil
}

// ResetDB truncates mutable state and restores the reference resources to
// their pristine aggregates.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()

	if _, err := pool.Exec(ctx, "TRUNCATE reservations, ratings"); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "UPDATE resources SET average_rating = 0, total_ratings = 0"); err != nil {
		return err
	}
	return SeedReferenceData(pool)
}
