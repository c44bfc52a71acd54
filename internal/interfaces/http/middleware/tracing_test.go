package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	prevProvider, prevPropagator := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})

	engine := gin.New()
	engine.Use(RequestID(), Tracing(TracingConfig{ServiceName: "solar-catalog", Enabled: true}), SpanEnricher())
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	perform(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	okReq := httptest.NewRequest(http.MethodGet, "/ok", nil)
	okReq.Header.Set(RequestIDHeader, "req-ok")
	perform(engine, okReq)
	perform(engine, httptest.NewRequest(http.MethodGet, "/fail", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2, "health checks are not traced")

	assert.Contains(t, spans[0].Attributes(), attribute.String("request_id", "req-ok"))
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestTracing_Disabled(t *testing.T) {
	engine := newEngine(Tracing(TracingConfig{}), SpanEnricher())
	w := perform(engine, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
