package telemetry

import (
	"context"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var _ catalogapp.RecommendationRecorder = (*RecommendationMetrics)(nil)

var (
	attrOutcome = attribute.Key("outcome")
	attrCached  = attribute.Key("cached")
)

// RecommendationMetrics counts recommendation lookups by outcome and measures their latency.
type RecommendationMetrics struct {
	lookups *OperationMetrics
}

func NewRecommendationMetrics(meter metric.Meter) (*RecommendationMetrics, error) {
	lookups, err := NewOperationMetrics(meter, OperationOpts{
		Prefix:      "solar.recommendation",
		Description: "Recommendation lookups by outcome and cache hit",
		Buckets:     LookupBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &RecommendationMetrics{lookups: lookups}, nil
}

func (m *RecommendationMetrics) RecordRecommendation(
	ctx context.Context,
	outcome catalogapp.RecommendationOutcome,
	cached bool,
	duration time.Duration,
) {
	m.lookups.Observe(ctx, duration, attrOutcome.String(string(outcome)), attrCached.Bool(cached))
}
