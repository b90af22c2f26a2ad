package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Result views change on every vote, so the TTL is short; the cache only
// absorbs read bursts between votes.
const ResultCacheTTL = 10 * time.Second

// CacheService provides a Redis cache-aside layer for result views.
type CacheService struct {
	rdb *redis.Client

	// OnHit and OnMiss, when set, are called on every cache lookup outcome.
	// Wired to Prometheus counters at startup.
	OnHit  func()
	OnMiss func()
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks and the
// live-update bridge). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetResults retrieves a cached result view. Returns nil if not cached or
// cache is disabled.
func (c *CacheService) GetResults(ctx context.Context, pollID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, resultsKey(pollID)).Bytes()
	if err == redis.Nil {
		if c.OnMiss != nil {
			c.OnMiss()
		}
		return nil, nil
	}
	if err == nil && c.OnHit != nil {
		c.OnHit()
	}
	return data, err
}

// SetResults stores a result view in cache.
func (c *CacheService) SetResults(ctx context.Context, pollID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, resultsKey(pollID), b, ResultCacheTTL).Err()
}

// InvalidateResults removes a poll's result view from cache (called after
// vote changes and resets).
func (c *CacheService) InvalidateResults(ctx context.Context, pollID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, resultsKey(pollID)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func resultsKey(pollID string) string {
	return fmt.Sprintf("results:%s", pollID)
}
