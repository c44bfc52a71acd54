package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// MetricsConfig configures the OTLP metrics pipeline.
type MetricsConfig struct {
	Collector
	Enabled        bool
	ExportInterval time.Duration
}

func (c MetricsConfig) interval() time.Duration {
	if c.ExportInterval <= 0 {
		return defaultExportInterval
	}
	return c.ExportInterval
}

// MeterProvider owns the SDK meter provider when metrics are exported.
// A disabled provider hands out meters from the global (no-op) provider.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
}

func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{}
	if !cfg.Enabled {
		logger.Info("Metrics export disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metrics exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.interval()))
	mp.sdk = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp.sdk)

	logger.Info("Metrics export enabled",
		zap.String("collector_endpoint", cfg.Endpoint),
		zap.Duration("export_interval", cfg.interval()),
	)
	return mp, nil
}

func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.sdk == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.sdk.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool { return mp.sdk != nil }

// Shutdown pushes the last collection and stops the exporter.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	return stopWithin(ctx, "metrics", mp.sdk.Shutdown)
}

// Latency bucket boundaries, in seconds.
var (
	// LookupBuckets fit work answered from cache or a single indexed query.
	LookupBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
	// RequestBuckets fit whole HTTP requests, including offer rendering.
	RequestBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

// OperationOpts names a counted and timed operation. Instruments are
// registered as "<Prefix>.requests" and "<Prefix>.duration".
type OperationOpts struct {
	Prefix      string
	Description string
	Buckets     []float64
}

// OperationMetrics counts an operation and records its latency under the
// same attribute set, so both series can be joined on their labels.
type OperationMetrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

func NewOperationMetrics(meter metric.Meter, opts OperationOpts) (*OperationMetrics, error) {
	count, err := meter.Int64Counter(opts.Prefix+".requests",
		metric.WithDescription(opts.Description),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("register %s.requests: %w", opts.Prefix, err)
	}

	histOpts := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description + " latency"),
		metric.WithUnit("s"),
	}
	if len(opts.Buckets) > 0 {
		histOpts = append(histOpts, metric.WithExplicitBucketBoundaries(opts.Buckets...))
	}
	duration, err := meter.Float64Histogram(opts.Prefix+".duration", histOpts...)
	if err != nil {
		return nil, fmt.Errorf("register %s.duration: %w", opts.Prefix, err)
	}

	return &OperationMetrics{count: count, duration: duration}, nil
}

// Observe records one completed operation.
func (m *OperationMetrics) Observe(ctx context.Context, elapsed time.Duration, attrs ...attribute.KeyValue) {
	set := metric.WithAttributeSet(attribute.NewSet(attrs...))
	m.count.Add(ctx, 1, set)
	m.duration.Record(ctx, elapsed.Seconds(), set)
}
