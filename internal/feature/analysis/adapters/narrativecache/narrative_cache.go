// Package narrativecache stores cached analysis narratives in memory or in Redis.
package narrativecache

import (
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/usecase"
	"crypto_backend/internal/platform/cache"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a narrative is served from the cache.
const DefaultTTL = 60 * time.Second

// memoryCache keeps narratives in a process-local TTL map.
type memoryCache struct {
	entries *cache.TTLCache[entity.Narrative]
}

var _ usecase.NarrativeCache = (*memoryCache)(nil)

// NewMemory creates an in-memory narrative cache. A nil clock uses time.Now.
func NewMemory(ttl time.Duration, now func() time.Time) *memoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryCache{entries: cache.NewTTLCache[entity.Narrative](ttl, now)}
}

func (m *memoryCache) Get(_ context.Context, key string) (entity.Narrative, bool) {
	return m.entries.Get(key)
}

func (m *memoryCache) Set(_ context.Context, key string, n entity.Narrative) {
	m.entries.Set(key, n)
}

// storedNarrative is the Redis representation of a narrative.
type storedNarrative struct {
	entity.Narrative
	Time time.Time `json:"time"`
}

// redisCache shares narratives between instances through Redis.
type redisCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.NarrativeCache = (*redisCache)(nil)

// NewRedis creates a Redis backed narrative cache.
func NewRedis(rdb *redis.Client, ttl time.Duration) *redisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{rdb: rdb, ttl: ttl, namespace: "analysis"}
}

func (r *redisCache) key(k string) string {
	return r.namespace + ":" + k
}

// Get treats every Redis failure as a miss.
func (r *redisCache) Get(ctx context.Context, key string) (entity.Narrative, bool) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("narrative cache read failed", "key", key, "error", err)
		}
		return entity.Narrative{}, false
	}
	var s storedNarrative
	if err := json.Unmarshal(b, &s); err != nil {
		_ = r.rdb.Del(ctx, r.key(key)).Err()
		return entity.Narrative{}, false
	}
	n := s.Narrative
	n.Time = s.Time
	return n, true
}

func (r *redisCache) Set(ctx context.Context, key string, n entity.Narrative) {
	b, err := json.Marshal(storedNarrative{Narrative: n, Time: n.Time})
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, r.key(key), b, r.ttl).Err(); err != nil {
		slog.Warn("narrative cache write failed", "key", key, "error", err)
	}
}
