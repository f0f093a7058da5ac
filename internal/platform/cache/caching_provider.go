// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/conversion/usecase"
)

// CachingProvider decorates a Provider with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying provider.
type CachingProvider struct {
	inner     usecase.Provider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.Provider = (*CachingProvider)(nil)

// NewCachingProvider decorates a Provider with Redis caching.
// If ttl is 0, entries expire at the next DefaultRefreshHour. If namespace is empty, it uses "isin".
// A nil rdb disables caching.
func NewCachingProvider(rdb *redis.Client, ttl time.Duration, inner usecase.Provider, namespace string) *CachingProvider {
	if namespace == "" {
		namespace = "isin"
	}
	return &CachingProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// Lookup returns candidates for isin, checking the cache first then falling back to the provider.
// Empty answers and provider errors are never cached.
func (c *CachingProvider) Lookup(ctx context.Context, isin string) ([]entity.Candidate, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Lookup(ctx, isin)
	}

	key := c.cacheKey(isin)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candidate
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && err != redis.Nil {
		slog.Warn("provider cache read failed", "key", key, "error", err)
	}

	// 2) Fallback to the provider
	out, err := c.inner.Lookup(ctx, isin)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.expiry()).Err(); err != nil {
			slog.Warn("provider cache write failed", "key", key, "error", err)
		}
	}

	return out, nil
}

// expiry returns the TTL for a new entry.
func (c *CachingProvider) expiry() time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return TimeUntilNextRefresh(c.now(), DefaultRefreshHour)
}

// cacheKey generates a cache key for an ISIN.
func (c *CachingProvider) cacheKey(isin string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(isin))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
