package fx

import (
	"context"
	"database/sql"
	"filmrover/internal/api"
	"filmrover/internal/cache"
	"filmrover/internal/config"
	"filmrover/internal/constants"
	"filmrover/internal/database"
	"filmrover/internal/db"
	"filmrover/internal/logger"
	"filmrover/internal/repository"
	"filmrover/internal/server"
	"filmrover/internal/service"
	"filmrover/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideRedis returns a nil client when REDIS_URL is unset.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	rdb, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		logger.Warn().Msg("REDIS_URL not set, caching disabled and sessions kept in memory")
		return nil, nil
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideSessionStore(rdb *redis.Client, cfg *config.Config) session.Store {
	if rdb == nil {
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(rdb, cfg.SessionTTL)
}

// Core wires everything but the HTTP server; the one-shot commands use it
// on its own.
var Core = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(ProvideRedis),
	fx.Provide(cache.New),
	// repos
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewChallengeRepository),
	// api client
	fx.Provide(api.NewTMDBClient),
	// svc
	fx.Provide(service.NewMetadataService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewChallengeService),
	fx.Provide(ProvideSessionStore),
	fx.Provide(service.NewPlayService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(server.NewServer),
)
