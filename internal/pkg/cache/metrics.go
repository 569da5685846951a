// Package cache stores computed dashboard payloads in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	KeyPrefix     = "metrics:"
	GenerationKey = "metrics-generation" // outside KeyPrefix so InvalidateAll keeps it
	scanBatchSize = 100
	defaultTTL    = time.Minute
)

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1].
const setIfGeneration = `
if (redis.call('GET', KEYS[1]) or '0') == ARGV[1] then
	return redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
end
return false
`

// MetricsCache is a JSON key/value cache scoped to KeyPrefix.
//
// Writers read Generation before computing a value and pass it to Set. An
// InvalidateAll in between advances the generation, so the late write is
// dropped instead of outliving the invalidation.
type MetricsCache interface {
	// Get decodes the entry at key into dst and reports whether it existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Generation(ctx context.Context) (int64, error)
	// Set stores value only while the generation still equals gen and reports
	// whether it was written.
	Set(ctx context.Context, key string, value any, gen int64) (bool, error)
	// InvalidateAll advances the generation and drops every key under KeyPrefix.
	InvalidateAll(ctx context.Context) error
}

type redisMetricsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

type noopMetricsCache struct{}

// NewMetricsCache connects to Redis when caching is enabled and returns a
// no-op cache otherwise.
func NewMetricsCache(cfg config.CacheConfig) (MetricsCache, *redis.Client, error) {
	if !cfg.Enabled {
		return NewNoopMetricsCache(), nil, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisMetricsCache(client, cfg.TTL), client, nil
}

// NewRedisMetricsCache wraps an existing client. A non-positive ttl falls back
// to one minute.
func NewRedisMetricsCache(client redis.Cmdable, ttl time.Duration) MetricsCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisMetricsCache{client: client, ttl: ttl}
}

func NewNoopMetricsCache() MetricsCache {
	return &noopMetricsCache{}
}

func (c *redisMetricsCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("decode metrics cache entry: %w", err)
	}
	return true, nil
}

func (c *redisMetricsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

func (c *redisMetricsCache) Set(ctx context.Context, key string, value any, gen int64) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode metrics cache entry: %w", err)
	}

	err = c.client.Eval(ctx, setIfGeneration, []string{GenerationKey, key}, gen, payload, c.ttl.Milliseconds()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set failed: %w", err)
	}
	return true, nil
}

func (c *redisMetricsCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, GenerationKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation failed: %w", err)
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, KeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (n *noopMetricsCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (n *noopMetricsCache) Generation(ctx context.Context) (int64, error) {
	return 0, nil
}

func (n *noopMetricsCache) Set(ctx context.Context, key string, value any, gen int64) (bool, error) {
	return false, nil
}

func (n *noopMetricsCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// GroupKey is the cache key for one group's month.
func GroupKey(group, period string) string {
	return KeyPrefix + "group:" + group + ":" + period
}

// AllGroupsKey is the cache key for the all-groups month.
func AllGroupsKey(period string) string {
	return KeyPrefix + "all:" + period
}
