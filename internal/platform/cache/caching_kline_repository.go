// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/indicators/usecase"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachingKlineRepository decorates a KlineRepository with Redis caching.
// An entry never outlives the candle it ends with: the TTL is capped by the
// time left until the next candle of the interval opens.
type CachingKlineRepository struct {
	inner     usecase.KlineRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.KlineRepository = (*CachingKlineRepository)(nil)

// NewCachingKlineRepository decorates a KlineRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "klines".
func NewCachingKlineRepository(rdb *redis.Client, ttl time.Duration, inner usecase.KlineRepository, namespace string) *CachingKlineRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "klines"
	}
	return &CachingKlineRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// Klines retrieves candles, checking the cache first and falling back to the exchange.
func (c *CachingKlineRepository) Klines(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Klines(ctx, symbol, interval, limit)
	}

	key := c.cacheKey(symbol, interval, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []domain.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Klines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	ttl := c.ttl
	if left, ok := TimeUntilNextCandle(interval, c.now()); ok && left < ttl {
		ttl = left
	}
	if ttl <= 0 || len(out) == 0 {
		return out, nil
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, ttl).Err()
	}
	return out, nil
}

func (c *CachingKlineRepository) cacheKey(symbol, interval string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d", c.namespace, safe(symbol), safe(interval), limit)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
