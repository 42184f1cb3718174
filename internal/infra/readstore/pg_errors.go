package readstore

import (
	"errors"

	"bookcore/internal/infra"

	"github.com/jackc/pgx/v5"
)

func wrapPgErr(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	}
	return infra.WrapRepoErr(msg, err)
}
