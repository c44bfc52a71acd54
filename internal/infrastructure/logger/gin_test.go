package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs with request id and route", func(t *testing.T) {
		router, recorded := newObservedRouter(zapcore.InfoLevel)
		router.GET("/api/v1/solar-packages/:id", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/solar-packages/abc?x=1", nil))

		logs := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "/api/v1/solar-packages/:id", fields["route"])
		assert.Equal(t, "x=1", fields["query"])
	})

	t.Run("level follows status", func(t *testing.T) {
		router, recorded := newObservedRouter(zapcore.InfoLevel)
		router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
		router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

		logs := recorded.All()
		require.Len(t, logs, 2)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
	})

	t.Run("health checks log at debug", func(t *testing.T) {
		router, recorded := newObservedRouter(zapcore.InfoLevel)
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, recorded.All())
	})

	t.Run("request context carries the logger", func(t *testing.T) {
		router, recorded := newObservedRouter(zapcore.InfoLevel)
		router.GET("/ctx", func(c *gin.Context) {
			assert.Equal(t, "req-7", GetRequestID(c.Request.Context()))
			FromContext(c.Request.Context()).Info("inside handler")
			assert.NotNil(t, GetGinLogger(c))
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ctx", nil))
		inside := recorded.FilterMessage("inside handler").All()
		require.Len(t, inside, 1)
		assert.Equal(t, "req-7", inside[0].ContextMap()["request_id"])
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"ERR_INTERNAL"`)
	require.Len(t, recorded.FilterMessage("Panic recovered").All(), 1)
}

func TestGetGinLogger_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, accessLevel(http.StatusOK, "/api/v1/products"))
	assert.Equal(t, zapcore.DebugLevel, accessLevel(http.StatusOK, "/health"))
	assert.Equal(t, zapcore.ErrorLevel, accessLevel(http.StatusServiceUnavailable, "/health"))
	assert.Equal(t, zapcore.WarnLevel, accessLevel(http.StatusTooManyRequests, "/api/v1/quotes"))
}
