package cache

import (
	"strconv"
	"testing"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{Host: mr.Host(), Port: port}
}

// unreachableRedis points at a closed miniredis port
func unreachableRedis(t *testing.T) config.RedisConfig {
	mr := miniredis.RunT(t)
	cfg := redisConfigFor(t, mr)
	mr.Close()
	return cfg
}

func TestRecommendationCacheFactory_Disabled(t *testing.T) {
	f := NewRecommendationCacheFactory(config.RedisConfig{}, config.CacheConfig{Enabled: false})

	c, err := f.CreateCache()

	require.NoError(t, err)
	assert.IsType(t, NoopRecommendationCache{}, c)
}

func TestRecommendationCacheFactory_MemoryBackend(t *testing.T) {
	f := NewRecommendationCacheFactory(config.RedisConfig{}, config.CacheConfig{Enabled: true, Backend: BackendMemory, TTL: time.Minute})

	c, err := f.CreateCache()

	require.NoError(t, err)
	assert.IsType(t, &InMemoryRecommendationCache{}, c)
}

func TestRecommendationCacheFactory_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	f := NewRecommendationCacheFactory(redisConfigFor(t, mr), config.CacheConfig{
		Enabled: true, Backend: BackendRedis, TTL: time.Minute, KeyPrefix: "solar:recommend:",
	})

	c, err := f.CreateCache()

	require.NoError(t, err)
	redisCache, ok := c.(*RedisRecommendationCache)
	require.True(t, ok)
	assert.NotNil(t, redisCache.Client())
	_ = redisCache.Close()
}

func TestRecommendationCacheFactory_FallsBackToMemory(t *testing.T) {
	f := NewRecommendationCacheFactory(unreachableRedis(t), config.CacheConfig{Enabled: true, Backend: BackendRedis})

	c, err := f.CreateCache()

	require.NoError(t, err)
	assert.IsType(t, &InMemoryRecommendationCache{}, c)
}

func TestRecommendationCacheFactory_FallbackDisallowed(t *testing.T) {
	f := NewRecommendationCacheFactory(unreachableRedis(t), config.CacheConfig{Enabled: true, Backend: BackendRedis},
		WithInMemoryFallback(false))

	c, err := f.CreateCache()

	assert.Error(t, err)
	assert.Nil(t, c)
}
