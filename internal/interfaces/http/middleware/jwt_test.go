package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/auth"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.AuthConfig{
		JWTSecret:             "middleware-test-secret-0123456789",
		AccessTokenExpiration: expiration,
		Issuer:                "solar-catalog",
	})
}

type brokenRevocationList struct{}

func (brokenRevocationList) Revoke(context.Context, string, time.Duration) error {
	return errors.New("unreachable")
}

func (brokenRevocationList) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("unreachable")
}

func TestJWTAuth(t *testing.T) {
	jwtService := testJWTService(time.Hour)
	revocations := auth.NewInMemoryRevocationList()

	var claims *auth.Claims
	var actor string
	engine := gin.New()
	engine.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{JWTService: jwtService, Revocations: revocations}))
	engine.GET("/admin", func(c *gin.Context) {
		claims = GetJWTClaims(c)
		actor = logger.GetActor(c.Request.Context())
		c.Status(http.StatusOK)
	})

	request := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set(AuthHeaderKey, header)
		}
		return perform(engine, req)
	}

	token, err := jwtService.GenerateAccessToken("admin")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := request(BearerPrefix + token.Token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, claims)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "admin", actor)
	})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "ERR_UNAUTHORIZED"},
		{"wrong scheme", "Basic " + token.Token, "ERR_TOKEN_INVALID"},
		{"garbage token", BearerPrefix + "not.a.jwt", "ERR_TOKEN_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.AuthConfig{
			JWTSecret: "another-secret-entirely-0123456789", AccessTokenExpiration: time.Hour, Issuer: "solar-catalog",
		})
		forged, err := other.GenerateAccessToken("admin")
		require.NoError(t, err)

		w := request(BearerPrefix + forged.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := testJWTService(-time.Hour).GenerateAccessToken("admin")
		require.NoError(t, err)

		w := request(BearerPrefix + expired.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("revoked token", func(t *testing.T) {
		revoked, err := jwtService.GenerateAccessToken("admin")
		require.NoError(t, err)
		parsed, err := jwtService.ValidateAccessToken(revoked.Token)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(context.Background(), parsed.ID, time.Hour))

		w := request(BearerPrefix + revoked.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_REVOKED")
	})
}

func TestJWTAuth_RevocationStoreDown(t *testing.T) {
	jwtService := testJWTService(time.Hour)
	engine := newEngine(JWTAuth(JWTMiddlewareConfig{JWTService: jwtService, Revocations: brokenRevocationList{}}))

	token, err := jwtService.GenerateAccessToken("admin")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.Token)

	w := perform(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetJWTClaims_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
}
