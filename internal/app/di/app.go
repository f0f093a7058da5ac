package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fintools/internal/app/config"
	convusecase "fintools/internal/feature/conversion/usecase"
	snapusecase "fintools/internal/feature/snapshot/usecase"
	healthhandler "fintools/internal/platform/http/handler"
	redisclient "fintools/internal/platform/redis"
)

// App bundles every component built from a Config.
type App struct {
	Config   *config.Config
	Symbols  convusecase.SymbolCache
	Resolver *convusecase.ResolveUsecase
	Exporter *snapusecase.ExportUsecase
	Comparer *snapusecase.CompareUsecase
	Catalog  *snapusecase.Catalog

	rdb *redis.Client
	gdb *gorm.DB
}

// NewApp creates the directories and wires all components. Redis and the index DB are optional.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		// Redis はキャッシュ用途のみなので起動は継続
		logger.Warn("provider cache disabled", "error", err)
		rdb = nil
	}

	gdb, err := OpenIndexDB(cfg)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("open snapshot index: %w", err)
	}

	symbols := NewSymbolCache(cfg, logger)
	resolver := NewResolver(cfg, NewProvider(cfg, rdb), symbols, logger)
	catalog := NewCatalog(cfg, gdb, logger)

	return &App{
		Config:   cfg,
		Symbols:  symbols,
		Resolver: resolver,
		Exporter: NewExporter(cfg, resolver, catalog, logger),
		Comparer: NewComparer(cfg, catalog, logger),
		Catalog:  catalog,
		rdb:      rdb,
		gdb:      gdb,
	}, nil
}

// Checks returns the health checks for the optional backends that are configured.
func (a *App) Checks() map[string]healthhandler.Check {
	checks := map[string]healthhandler.Check{}
	if a.rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() }
	}
	if a.gdb != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := a.gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return checks
}

// Close releases the Redis client and the database connection.
func (a *App) Close() error {
	var errs []error
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.gdb != nil {
		if sqlDB, err := a.gdb.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
