package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Collector: Collector{ServiceName: "test-service"}, SamplingRatio: 1}

	tp, err := NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_EnabledLazyConnect(t *testing.T) {
	// The gRPC exporter connects lazily, so construction succeeds without a collector
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, Config{
		Collector:     Collector{Endpoint: "localhost:14317", Insecure: true, ServiceName: "test-service"},
		Enabled:       true,
		SamplingRatio: 0.5,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(shutdownCtx)
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{Collector: Collector{ServiceName: "test-service"}}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{Collector: Collector{ServiceName: "test-service"}}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(ctx))

	var nilProvider *LoggerProvider
	assert.NotNil(t, nilProvider.ZapCore(zapcore.InfoLevel))
}

func TestMinLevelCore(t *testing.T) {
	core := minLevelCore{
		Core: zapcore.NewCore(zapcore.NewJSONEncoder(zapcore.EncoderConfig{}), zapcore.AddSync(&nopWriter{}), zapcore.DebugLevel),
		min:  zapcore.WarnLevel,
	}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil))
	assert.NotNil(t, core.Check(zapcore.Entry{Level: zapcore.ErrorLevel}, nil))

	child, ok := core.With(nil).(minLevelCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, child.min)
}

func TestCollector_Resource(t *testing.T) {
	res, err := Collector{ServiceName: "solar-catalog"}.resource()
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "solar-catalog", attrs["service.name"])
	assert.Equal(t, "dev", attrs["service.version"])
}

func TestStopWithin(t *testing.T) {
	var deadline time.Time
	err := stopWithin(context.Background(), "tracing", func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return errors.New("exporter gone")
	})

	assert.EqualError(t, err, "tracing shutdown: exporter gone")
	assert.WithinDuration(t, time.Now().Add(shutdownTimeout), deadline, time.Second)
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }
