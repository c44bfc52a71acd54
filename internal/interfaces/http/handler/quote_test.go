package handler

import (
	"net/http"
	"testing"

	inquiryapp "github.com/Esyonel/vural-enerji-sub001/internal/application/inquiry"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/dto"
	"github.com/Esyonel/vural-enerji-sub001/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteHandler_Flow(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.adminHeaders(t)
	pkg := srv.createPackage(t, "Starter", "800", "1200")

	w := srv.do(t, http.MethodPost, "/api/v1/quote-requests", map[string]any{
		"full_name":    "Ayşe Yılmaz",
		"email":        "ayse@example.com",
		"city":         "Izmir",
		"monthly_bill": "1100",
		"package_id":   pkg.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quote := testutil.DecodeEnvelope[inquiryapp.QuoteResponse](t, w).Data
	assert.Equal(t, "new", quote.Status)
	require.NotNil(t, quote.PackageID)
	assert.Equal(t, pkg.ID, *quote.PackageID)

	t.Run("contact details are required", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/quote-requests", map[string]any{
			"full_name": "No Contact",
		}, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, testutil.DecodeEnvelope[any](t, w).Error.Code)
	})

	t.Run("out of range monthly bill is rejected", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/quote-requests", map[string]any{
			"full_name": "Big Spender", "phone": "+90 555 000 0001", "monthly_bill": "1e10000000",
		}, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, testutil.DecodeEnvelope[any](t, w).Error.Code)
	})

	t.Run("unknown package is rejected", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/quote-requests", map[string]any{
			"full_name": "Ghost", "phone": "+90 555 000 0000", "package_id": uuid.NewString(),
		}, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("listing requires a token", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/quote-requests", nil, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("list and get", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/quote-requests?status=new", nil, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := testutil.DecodeEnvelope[[]inquiryapp.QuoteResponse](t, w)
		require.Len(t, env.Data, 1)
		assert.Equal(t, int64(1), env.Meta.Total)

		w = srv.do(t, http.MethodGet, "/api/v1/quote-requests/"+quote.ID.String(), nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ayşe Yılmaz", testutil.DecodeEnvelope[inquiryapp.QuoteResponse](t, w).Data.FullName)
	})

	t.Run("status transitions", func(t *testing.T) {
		path := "/api/v1/quote-requests/" + quote.ID.String() + "/status"

		w := srv.do(t, http.MethodPut, path, map[string]any{"status": "contacted"}, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "contacted", testutil.DecodeEnvelope[inquiryapp.QuoteResponse](t, w).Data.Status)

		w = srv.do(t, http.MethodPut, path, map[string]any{"status": "new"}, admin)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, testutil.DecodeEnvelope[any](t, w).Error.Code)

		w = srv.do(t, http.MethodPut, path, map[string]any{"status": "archived"}, admin)
		require.Equal(t, http.StatusBadRequest, w.Code)

		w = srv.do(t, http.MethodPut, path, map[string]any{"status": "closed"}, admin)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown quote", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/quote-requests/"+uuid.NewString(), nil, admin)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
