package db_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"tripplanner/internal/config"
	"tripplanner/internal/infra"
	"tripplanner/internal/repositories"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(
	provideKeyStore,
	providePersistentStore)

// provideKeyStore opens only the backend STORE_DRIVER selects.
func provideKeyStore(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (repositories.KeyStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := infra.InitPostgresql(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db, log)
				return nil
			},
		})
		return repositories.NewGormKeyStore(db)

	case config.StoreRedis:
		rdb, err := infra.InitRedis(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return rdb.Close()
			},
		})
		return repositories.NewRedisKeyStore(rdb, cfg.RedisPrefix), nil

	default:
		log.Info().Int("quota_bytes", cfg.StorageQuotaBytes).Msg("using in-memory key store")
		return mem.NewMemoryStore(cfg.StorageQuotaBytes), nil
	}
}

func providePersistentStore(backend repositories.KeyStore, log zerolog.Logger) *repositories.PersistentStore {
	return repositories.NewPersistentStore(backend, log)
}
