package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/repositories"
)

// RecommendationTTL applies to both attraction and hotel caches.
const RecommendationTTL = 7 * 24 * time.Hour

type RecommendationCacheInterface interface {
	Lookup(ctx context.Context, cacheName, key string, dst any) bool
	Store(ctx context.Context, cacheName, key string, data any)
	SweepExpired(ctx context.Context, cacheName string) int
}

type cacheNamespace map[string]trip_models.CacheEntry[json.RawMessage]

type RecommendationCache struct {
	store *repositories.PersistentStore
	now   func() time.Time
	log   zerolog.Logger
}

func NewRecommendationCache(store *repositories.PersistentStore, log zerolog.Logger) *RecommendationCache {
	return &RecommendationCache{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "recommendation_cache").Logger(),
	}
}

// WithClock replaces the time source, for TTL tests.
func (c *RecommendationCache) WithClock(now func() time.Time) *RecommendationCache {
	c.now = now
	return c
}

// NormalizeCacheKey trims and lowercases a destination so spelling variants collide.
func NormalizeCacheKey(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}

// load returns an empty namespace when it is missing or corrupted.
func (c *RecommendationCache) load(ctx context.Context, cacheName string) cacheNamespace {
	ns := cacheNamespace{}
	if !c.store.Get(ctx, cacheName, &ns) {
		return cacheNamespace{}
	}
	return ns
}

func (c *RecommendationCache) expired(entry trip_models.CacheEntry[json.RawMessage]) bool {
	age := c.now().UnixMilli() - entry.Timestamp
	return age > RecommendationTTL.Milliseconds()
}

// Lookup decodes a live entry into dst. Expired and undecodable entries are misses.
func (c *RecommendationCache) Lookup(ctx context.Context, cacheName, key string, dst any) bool {
	entry, ok := c.load(ctx, cacheName)[NormalizeCacheKey(key)]
	if !ok || c.expired(entry) {
		return false
	}
	if err := json.Unmarshal(entry.Data, dst); err != nil {
		c.log.Warn().Err(err).Str("cache", cacheName).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	return true
}

func (c *RecommendationCache) Store(ctx context.Context, cacheName, key string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.log.Error().Err(err).Str("cache", cacheName).Msg("cache data not serializable")
		return
	}

	ns := c.load(ctx, cacheName)
	ns[NormalizeCacheKey(key)] = trip_models.CacheEntry[json.RawMessage]{
		Timestamp: c.now().UnixMilli(),
		Data:      raw,
	}
	c.store.Set(ctx, cacheName, ns)
}

// SweepExpired evicts every expired entry of a namespace and returns how many went.
func (c *RecommendationCache) SweepExpired(ctx context.Context, cacheName string) int {
	ns := c.load(ctx, cacheName)
	evicted := 0
	for k, entry := range ns {
		if c.expired(entry) {
			delete(ns, k)
			evicted++
		}
	}
	if evicted > 0 {
		c.store.Set(ctx, cacheName, ns)
		c.log.Info().Str("cache", cacheName).Int("evicted", evicted).Msg("expired recommendations swept")
	}
	return evicted
}
