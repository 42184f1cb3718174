package components

import (
	"bookcore/internal/infra/cache"
	"bookcore/internal/infra/db"
	"bookcore/internal/infra/notify"
	"bookcore/internal/infra/readstore"
	"bookcore/internal/infra/uow"
	"bookcore/internal/pkg/config"
	"bookcore/internal/usecase/commands"
	"bookcore/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBX,
		uow.NewPostgresUoW,
		NewRatingSummaryCache,
		NewNotifier,
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewResourceReadStore,
			fx.As(new(queries.ResourceReadStore)),
		),
		fx.Annotate(
			readstore.NewRatingReadStore,
			fx.As(new(queries.RatingReadStore)),
		),
	),
)

// NewDBX exposes the pool under the narrow query interface the readstores use.
func NewDBX(pool *pgxpool.Pool) db.DB {
	return pool
}

func NewRatingSummaryCache(client *redis.Client, cfg config.Config) queries.SummaryCache {
	return cache.NewRatingSummaryCache(client, cfg.Redis.CacheTTL)
}

func NewNotifier(cfg config.Config) commands.Notifier {
	return notify.NewLogNotifier(cfg.Notify)
}
