package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CacheGeneration identifies the catalog state a cached result was computed from.
// Invalidate moves the cache to a new generation.
type CacheGeneration int64

// RecommendationCache stores recommendation results per bill amount.
// Implementations live in the infrastructure layer (Redis, in-memory).
// Invalidate must make every previously stored result unreachable, including
// results computed before it and stored after it.
type RecommendationCache interface {
	// Get returns the cached result for bill and the generation it looked in;
	// found is false on a miss
	Get(ctx context.Context, bill decimal.Decimal) (result *RecommendationResult, gen CacheGeneration, found bool, err error)

	// Set stores the result for bill unless the cache has left generation gen
	Set(ctx context.Context, gen CacheGeneration, bill decimal.Decimal, result *RecommendationResult) error

	// Invalidate drops every cached result
	Invalidate(ctx context.Context) error
}

// RecommendationOutcome labels a recommendation for metrics
type RecommendationOutcome string

const (
	RecommendationMatched RecommendationOutcome = "matched"
	RecommendationNoMatch RecommendationOutcome = "no_match"
	RecommendationInvalid RecommendationOutcome = "invalid"
	RecommendationFailed  RecommendationOutcome = "error"
)

// RecommendationRecorder receives one event per recommendation request
type RecommendationRecorder interface {
	RecordRecommendation(ctx context.Context, outcome RecommendationOutcome, cached bool, duration time.Duration)
}
