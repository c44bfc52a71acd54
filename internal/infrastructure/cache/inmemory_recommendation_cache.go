package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// defaultMaxEntries bounds the in-memory cache. Bills are user input, so the key
// space is unbounded without it.
const defaultMaxEntries = 10000

type inMemoryEntry struct {
	result    catalogapp.RecommendationResult
	expiresAt time.Time
}

// InMemoryRecommendationCache is a process-local RecommendationCache.
// WARNING: entries are not shared across instances, so a write on one instance
// does not invalidate the others. Use it for single-instance deployments and tests.
type InMemoryRecommendationCache struct {
	mu         sync.RWMutex
	entries    map[string]inMemoryEntry
	generation int64
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewInMemoryRecommendationCache creates a new in-memory cache
func NewInMemoryRecommendationCache(ttl time.Duration) *InMemoryRecommendationCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &InMemoryRecommendationCache{
		entries:    make(map[string]inMemoryEntry),
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached result for bill and the current generation
func (c *InMemoryRecommendationCache) Get(_ context.Context, bill decimal.Decimal) (*catalogapp.RecommendationResult, catalogapp.CacheGeneration, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[bill.String()]
	gen := catalogapp.CacheGeneration(c.generation)
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, gen, false, nil
	}
	return cloneResult(&entry.result), gen, true, nil
}

// Set stores a copy of the result for bill. It is dropped when Invalidate ran
// after gen was read.
func (c *InMemoryRecommendationCache) Set(_ context.Context, gen catalogapp.CacheGeneration, bill decimal.Decimal, result *catalogapp.RecommendationResult) error {
	if result == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if int64(gen) != c.generation {
		return nil
	}
	if len(c.entries) >= c.maxEntries {
		c.evictExpiredLocked()
		if len(c.entries) >= c.maxEntries {
			c.entries = make(map[string]inMemoryEntry)
		}
	}
	c.entries[bill.String()] = inMemoryEntry{result: *cloneResult(result), expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops every entry and starts a new generation
func (c *InMemoryRecommendationCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]inMemoryEntry)
	c.generation++
	c.mu.Unlock()
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryRecommendationCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryRecommendationCache) evictExpiredLocked() {
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// cloneResult copies the result down to its slices, so callers never share
// memory with a stored entry
func cloneResult(r *catalogapp.RecommendationResult) *catalogapp.RecommendationResult {
	out := *r
	if r.Package != nil {
		pkg := *r.Package
		pkg.Features = slices.Clone(r.Package.Features)
		pkg.LineItems = slices.Clone(r.Package.LineItems)
		out.Package = &pkg
	}
	return &out
}

var _ catalogapp.RecommendationCache = (*InMemoryRecommendationCache)(nil)

// NoopRecommendationCache never stores anything. It is used when caching is disabled.
type NoopRecommendationCache struct{}

// Get always misses
func (NoopRecommendationCache) Get(context.Context, decimal.Decimal) (*catalogapp.RecommendationResult, catalogapp.CacheGeneration, bool, error) {
	return nil, 0, false, nil
}

// Set discards the result
func (NoopRecommendationCache) Set(context.Context, catalogapp.CacheGeneration, decimal.Decimal, *catalogapp.RecommendationResult) error {
	return nil
}

// Invalidate does nothing
func (NoopRecommendationCache) Invalidate(context.Context) error {
	return nil
}

var _ catalogapp.RecommendationCache = NoopRecommendationCache{}
