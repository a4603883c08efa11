// Package cache provides the Redis-backed dashboard cache.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"garmentpos/internal/domain/reports"
	"garmentpos/pkg/logger"
)

const dashboardKey = "garmentpos:dashboard"

// DefaultDashboardTTL keeps the dashboard fresh enough for the counter
// screen while sparing the aggregate queries on every poll.
const DefaultDashboardTTL = 60 * time.Second

// Config for the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache implements reports.Cache on a Redis instance. Cache failures
// are logged and treated as misses so reporting keeps working when Redis
// is down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(cfg Config) *RedisCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{client: client, ttl: ttl}
}

var _ reports.Cache = (*RedisCache)(nil)

// Ping verifies the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetDashboard(ctx context.Context) (*reports.Dashboard, bool) {
	val, err := c.client.Get(ctx, dashboardKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn(ctx, "dashboard cache read failed", "error", err)
		return nil, false
	}

	var d reports.Dashboard
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		logger.Warn(ctx, "dashboard cache entry corrupt", "error", err)
		return nil, false
	}

	return &d, true
}

func (c *RedisCache) SetDashboard(ctx context.Context, d *reports.Dashboard) {
	if d == nil {
		return
	}

	payload, err := json.Marshal(d)
	if err != nil {
		logger.Warn(ctx, "dashboard cache marshal failed", "error", err)
		return
	}

	if err := c.client.Set(ctx, dashboardKey, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "dashboard cache write failed", "error", err)
	}
}

func (c *RedisCache) InvalidateDashboard(ctx context.Context) {
	if err := c.client.Del(ctx, dashboardKey).Err(); err != nil {
		logger.Warn(ctx, "dashboard cache invalidate failed", "error", err)
	}
}
