package readstore

import (
	"context"

	"bookcore/internal/infra/db"

	"github.com/google/uuid"
)

type ResourceReadStore struct {
	dbx db.DB
}

func NewResourceReadStore(dbx db.DB) *ResourceReadStore {
	return &ResourceReadStore{dbx: dbx}
}

func (r *ResourceReadStore) FindCapacity(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var capacity int
	row := r.dbx.QueryRow(ctx, `SELECT capacity FROM resources WHERE id = $1`, resourceID)
	if err := row.Scan(&capacity); err != nil {
		return 0, wrapPgErr("failed to find resource capacity", err)
	}
	return capacity, nil
}
