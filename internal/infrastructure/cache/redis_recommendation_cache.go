package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultKeyPrefix is used when no key prefix is configured
const DefaultKeyPrefix = "solar:recommend:"

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisRecommendationCache stores recommendation results in Redis.
// Keys are {prefix}v{version}:{bill}. Invalidate increments the version key, so
// stale entries become unreachable at once and expire on their own TTL.
// This is suitable for deployments where several instances share one catalog.
type RedisRecommendationCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRecommendationCache creates a cache on an existing client
func NewRedisRecommendationCache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisRecommendationCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisRecommendationCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Client returns the underlying Redis client so other components can share it
func (c *RedisRecommendationCache) Client() *redis.Client {
	return c.client
}

// Get returns the cached result for bill along with the version it looked in
func (c *RedisRecommendationCache) Get(ctx context.Context, bill decimal.Decimal) (*catalogapp.RecommendationResult, catalogapp.CacheGeneration, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	gen := catalogapp.CacheGeneration(version)

	data, err := c.client.Get(ctx, c.entryKey(version, bill)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("failed to read cached recommendation: %w", err)
	}

	var result catalogapp.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, gen, false, fmt.Errorf("failed to decode cached recommendation: %w", err)
	}
	return &result, gen, true, nil
}

// Set stores the result under version gen. After an Invalidate that key is
// never read again, so a result computed against an older catalog stays dead.
func (c *RedisRecommendationCache) Set(ctx context.Context, gen catalogapp.CacheGeneration, bill decimal.Decimal, result *catalogapp.RecommendationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode recommendation: %w", err)
	}
	if err := c.client.Set(ctx, c.entryKey(int64(gen), bill), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache recommendation: %w", err)
	}
	return nil
}

// Invalidate bumps the catalog version
func (c *RedisRecommendationCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("failed to bump recommendation cache version: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRecommendationCache) Close() error {
	return c.client.Close()
}

func (c *RedisRecommendationCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read recommendation cache version: %w", err)
	}
	return v, nil
}

func (c *RedisRecommendationCache) versionKey() string {
	return c.keyPrefix + "version"
}

func (c *RedisRecommendationCache) entryKey(version int64, bill decimal.Decimal) string {
	return fmt.Sprintf("%sv%d:%s", c.keyPrefix, version, bill.String())
}

// Ensure RedisRecommendationCache implements RecommendationCache
var _ catalogapp.RecommendationCache = (*RedisRecommendationCache)(nil)
