package cache

import (
	"fmt"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache backends
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// RecommendationCacheFactory creates recommendation caches based on configuration
type RecommendationCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*RecommendationCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *RecommendationCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache when Redis is unavailable.
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *RecommendationCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRecommendationCacheFactory creates a new factory
func NewRecommendationCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *RecommendationCacheFactory {
	f := &RecommendationCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache connects to Redis and creates a Redis-backed cache
func (f *RecommendationCacheFactory) CreateRedisCache() (*RedisRecommendationCache, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis recommendation cache: %w", err)
	}
	return NewRedisRecommendationCache(client, f.cacheConfig.KeyPrefix, f.cacheConfig.TTL), nil
}

// CreateInMemoryCache creates a process-local cache
func (f *RecommendationCacheFactory) CreateInMemoryCache() *InMemoryRecommendationCache {
	return NewInMemoryRecommendationCache(f.cacheConfig.TTL)
}

// CreateCache creates the configured cache.
// A disabled cache is a no-op. The redis backend falls back to memory when
// Redis is unreachable and fallback is allowed.
func (f *RecommendationCacheFactory) CreateCache() (catalogapp.RecommendationCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("Recommendation cache disabled")
		return NoopRecommendationCache{}, nil
	}

	if f.cacheConfig.Backend == BackendMemory {
		f.logger.Info("Using in-memory recommendation cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis recommendation cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for recommendation cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory recommendation cache. "+
		"Catalog writes on other instances will not invalidate this cache before its TTL.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
