package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/application/identity"
	inquiryapp "github.com/Esyonel/vural-enerji-sub001/internal/application/inquiry"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/auth"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/cache"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/persistence"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/storage"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/middleware"
	"github.com/Esyonel/vural-enerji-sub001/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "s3cret-passw0rd"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testServer wires the real services over sqlite the way cmd/server does
type testServer struct {
	engine      *gin.Engine
	printer     *fakeOfferPrinter
	db          *gorm.DB
	jwt         *auth.JWTService
	revocations *auth.InMemoryRevocationList
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithPrinter(t, &fakeOfferPrinter{})
}

// newTestServerWithPrinter builds a test server whose offer endpoint uses
// printer; a nil printer leaves offer printing disabled
func newTestServerWithPrinter(t *testing.T, printer *fakeOfferPrinter) *testServer {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	productRepo := persistence.NewGormProductRepository(db)
	packageRepo := persistence.NewGormSolarPackageRepository(db)
	quoteRepo := persistence.NewGormQuoteRequestRepository(db)
	recCache := cache.NewInMemoryRecommendationCache(time.Minute)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authCfg := config.AuthConfig{
		AdminUsername:         testAdminUser,
		AdminPasswordHash:     string(hash),
		JWTSecret:             "handler-test-secret-with-enough-length",
		AccessTokenExpiration: time.Hour,
		Issuer:                "solar-catalog-test",
	}
	jwtService := auth.NewJWTService(authCfg)
	revocations := auth.NewInMemoryRevocationList()

	packageHandler := NewSolarPackageHandler(catalogapp.NewPackageService(packageRepo, productRepo, recCache))
	productHandler := NewProductHandler(
		catalogapp.NewProductService(productRepo, recCache),
		catalogapp.NewProductImageService(productRepo, storage.NewStubImageStorage(""), recCache,
			catalogapp.ProductImageServiceConfig{PublicBaseURL: "https://cdn.example.com"}),
	)
	importHandler := NewProductImportHandler(catalogapp.NewProductImportService(productRepo, recCache))
	var offerPrinter catalogapp.OfferPrinter
	if printer != nil {
		offerPrinter = printer
	}
	offerHandler := NewOfferHandler(catalogapp.NewOfferService(packageRepo, offerPrinter, 0))
	quoteHandler := NewQuoteHandler(inquiryapp.NewQuoteService(quoteRepo, packageRepo, nil))
	authHandler := NewAuthHandler(identity.NewAuthService(authCfg, jwtService, revocations, nil))

	requireAdmin := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
	})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")

	api.GET("/solar-packages", packageHandler.List)
	api.GET("/solar-packages/recommend/:billAmount", packageHandler.Recommend)
	api.GET("/solar-packages/:id", packageHandler.GetByID)
	api.GET("/solar-packages/:id/offer", offerHandler.Download)
	api.POST("/solar-packages", requireAdmin, packageHandler.Create)
	api.PUT("/solar-packages/:id", requireAdmin, packageHandler.Update)
	api.PUT("/solar-packages/:id/line-items", requireAdmin, packageHandler.SetLineItems)
	api.DELETE("/solar-packages/:id", requireAdmin, packageHandler.Delete)

	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.GetByID)
	api.POST("/products", requireAdmin, productHandler.Create)
	api.POST("/products/import", requireAdmin, importHandler.Import)
	api.PUT("/products/:id", requireAdmin, productHandler.Update)
	api.DELETE("/products/:id", requireAdmin, productHandler.Delete)
	api.POST("/products/:id/activate", requireAdmin, productHandler.Activate)
	api.POST("/products/:id/deactivate", requireAdmin, productHandler.Deactivate)
	api.POST("/products/:id/image/upload-url", requireAdmin, productHandler.RequestImageUpload)
	api.POST("/products/:id/image/confirm", requireAdmin, productHandler.ConfirmImageUpload)

	api.POST("/quote-requests", quoteHandler.Submit)
	api.GET("/quote-requests", requireAdmin, quoteHandler.List)
	api.GET("/quote-requests/:id", requireAdmin, quoteHandler.GetByID)
	api.PUT("/quote-requests/:id/status", requireAdmin, quoteHandler.UpdateStatus)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", requireAdmin, authHandler.Logout)
	api.GET("/auth/me", requireAdmin, authHandler.Me)

	return &testServer{engine: engine, printer: printer, db: db, jwt: jwtService, revocations: revocations}
}

// fakeOfferPrinter records the last offer sheet and returns fixed PDF bytes
type fakeOfferPrinter struct {
	last *catalogapp.OfferSheet
	err  error
}

func (p *fakeOfferPrinter) PrintOffer(_ context.Context, offer catalogapp.OfferSheet) ([]byte, error) {
	p.last = &offer
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.4 test"), nil
}

// adminHeaders returns an Authorization header carrying a fresh admin token
func (s *testServer) adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(testAdminUser)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token.Token}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.PerformRequest(t, s.engine, method, path, body, headers)
}

// createProduct creates a product through the API and returns it
func (s *testServer) createProduct(t *testing.T, name, price string) catalogapp.ProductResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name":       name,
		"unit_price": price,
		"category":   "panel",
	}, s.adminHeaders(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeEnvelope[catalogapp.ProductResponse](t, w).Data
}

// createPackage creates a package covering [minBill, maxBill] and returns it
func (s *testServer) createPackage(t *testing.T, name, minBill, maxBill string, products ...map[string]any) catalogapp.PackageDetailResponse {
	t.Helper()
	body := map[string]any{
		"name":              name,
		"min_bill":          minBill,
		"max_bill":          maxBill,
		"total_price":       "150000",
		"installation_cost": "10000",
		"system_power":      "5 kW",
		"features":          []string{"25 year warranty"},
	}
	if len(products) > 0 {
		body["products"] = products
	}
	w := s.do(t, http.MethodPost, "/api/v1/solar-packages", body, s.adminHeaders(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeEnvelope[catalogapp.PackageDetailResponse](t, w).Data
}
