package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOperationMetrics_Observe(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewOperationMetrics(provider.Meter("test"), OperationOpts{
		Prefix:      "solar.offer",
		Description: "Offer renders",
		Buckets:     RequestBuckets,
	})
	require.NoError(t, err)

	ctx := context.Background()
	m.Observe(ctx, 30*time.Millisecond, attribute.String("result", "ok"))
	m.Observe(ctx, 2*time.Second, attribute.String("result", "ok"))

	metrics := collect(t, reader)

	count, ok := metrics["solar.offer.requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, count.DataPoints, 1)
	assert.Equal(t, int64(2), count.DataPoints[0].Value)

	latency, ok := metrics["solar.offer.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, latency.DataPoints, 1)
	dp := latency.DataPoints[0]
	assert.Equal(t, uint64(2), dp.Count)
	assert.Equal(t, RequestBuckets, dp.Bounds)
	assert.InDelta(t, 2.03, dp.Sum, 1e-9)
	assert.Equal(t, "s", metrics["solar.offer.duration"].Unit)
}

func TestMetricsConfig_Interval(t *testing.T) {
	assert.Equal(t, time.Minute, MetricsConfig{}.interval())
	assert.Equal(t, 15*time.Second, MetricsConfig{ExportInterval: 15 * time.Second}.interval())
}
