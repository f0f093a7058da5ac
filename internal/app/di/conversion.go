// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"fintools/internal/app/config"
	"fintools/internal/feature/conversion/adapters"
	"fintools/internal/feature/conversion/usecase"
	"fintools/internal/platform/cache"
	"fintools/internal/platform/externalapi/yahoo"
	infrahttp "fintools/internal/platform/http"
	"fintools/internal/shared/timestamp"
)

// NewProvider creates the Yahoo Finance provider, wrapped in a Redis cache when rdb is not nil.
func NewProvider(cfg *config.Config, rdb *redis.Client) usecase.Provider {
	ycfg := yahoo.DefaultConfig()
	ycfg.BaseURL = cfg.YahooBaseURL
	ycfg.Timeout = cfg.LookupTimeout
	httpClient := infrahttp.NewHTTPClient(ycfg.Timeout, cfg.Concurrency)

	var provider usecase.Provider = yahoo.NewYahooProvider(ycfg, httpClient)
	if rdb != nil {
		provider = cache.NewCachingProvider(rdb, cfg.RedisTTL, provider, "isin")
	}
	return provider
}

// NewSymbolCache creates the JSON file backed symbol cache.
func NewSymbolCache(cfg *config.Config, logger *slog.Logger) usecase.SymbolCache {
	return adapters.NewSymbolCacheFile(cfg.CacheFile, timestamp.Now, logger)
}

// NewResolver creates a ResolveUsecase from the configured provider and cache.
func NewResolver(cfg *config.Config, provider usecase.Provider, symbols usecase.SymbolCache, logger *slog.Logger) *usecase.ResolveUsecase {
	return usecase.NewResolveUsecase(provider, symbols, cfg.Concurrency, cfg.LookupTimeout, logger)
}
