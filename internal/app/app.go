package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"aquamon/internal/cache"
	"aquamon/internal/config"
	"aquamon/internal/db"
	httpserver "aquamon/internal/http"
	"aquamon/internal/http/handlers"
	"aquamon/internal/http/middleware"
	"aquamon/internal/repository"
	"aquamon/internal/service"
)

// App wires aquamon dependencies.
type App struct {
	server *httpserver.Server
	pool   *pgxpool.Pool
	cache  *cache.LatestCache
	logger *zap.Logger
}

// New constructs application components. Schema migrations run here, before
// the server accepts traffic.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := db.NewPostgres(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(cfg.DatabaseURL(), logger); err != nil {
		pool.Close()
		return nil, err
	}

	var (
		latestCache *cache.LatestCache
		liveCache   service.LatestCache
	)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			pool.Close()
			return nil, err
		}
		latestCache = cache.NewLatestCache(client)
		liveCache = latestCache
	}

	measurementRepo := repository.NewMeasurementRepository(pool, cfg.Database.QueryTimeout)
	configRepo := repository.NewConfigRepository(pool, cfg.Database.QueryTimeout)

	svc := service.NewTelemetryService(measurementRepo, configRepo, liveCache, cfg, logger)

	routes := httpserver.Routes{
		Ingest:     handlers.NewIngestHandler(svc, logger),
		Config:     handlers.NewConfigHandler(svc, logger),
		Latest:     handlers.NewLatestHandler(svc, logger),
		History:    handlers.NewHistoryHandler(svc, logger),
		Health:     handlers.NewHealthHandler(),
		DeviceAuth: middleware.DeviceAuth(cfg.Auth.DeviceSecret),
	}

	router := httpserver.NewRouter(routes, cfg.Web.Dir)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		pool:   pool,
		cache:  latestCache,
		logger: logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close cache", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
