package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindBySKUs(ctx context.Context, skus []string) ([]catalog.Product, error) {
	args := m.Called(ctx, skus)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSolarPackageRepository is a mock implementation of SolarPackageRepository
type MockSolarPackageRepository struct {
	mock.Mock
}

func (m *MockSolarPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SolarPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SolarPackage), args.Error(1)
}

func (m *MockSolarPackageRepository) FindAll(ctx context.Context, status *catalog.PackageStatus) ([]catalog.SolarPackage, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]catalog.SolarPackage), args.Error(1)
}

func (m *MockSolarPackageRepository) FindCandidatesForBill(ctx context.Context, bill decimal.Decimal) ([]catalog.SolarPackage, error) {
	args := m.Called(ctx, bill)
	return args.Get(0).([]catalog.SolarPackage), args.Error(1)
}

func (m *MockSolarPackageRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSolarPackageRepository) Create(ctx context.Context, pkg *catalog.SolarPackage, items []catalog.PackageLineItem) error {
	args := m.Called(ctx, pkg, items)
	return args.Error(0)
}

func (m *MockSolarPackageRepository) Update(ctx context.Context, pkg *catalog.SolarPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockSolarPackageRepository) UpdateWithLineItems(ctx context.Context, pkg *catalog.SolarPackage, items []catalog.PackageLineItem) error {
	args := m.Called(ctx, pkg, items)
	return args.Error(0)
}

func (m *MockSolarPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSolarPackageRepository) SetLineItems(ctx context.Context, packageID uuid.UUID, items []catalog.PackageLineItem) error {
	args := m.Called(ctx, packageID, items)
	return args.Error(0)
}

func (m *MockSolarPackageRepository) FindLineItemsWithProductInfo(ctx context.Context, packageID uuid.UUID) ([]catalog.LineItemWithProduct, error) {
	args := m.Called(ctx, packageID)
	return args.Get(0).([]catalog.LineItemWithProduct), args.Error(1)
}

// MockRecommendationCache is a mock implementation of RecommendationCache
type MockRecommendationCache struct {
	mock.Mock
}

func (m *MockRecommendationCache) Get(ctx context.Context, bill decimal.Decimal) (*RecommendationResult, CacheGeneration, bool, error) {
	args := m.Called(ctx, bill)
	gen := args.Get(1).(CacheGeneration)
	if args.Get(0) == nil {
		return nil, gen, args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*RecommendationResult), gen, args.Bool(2), args.Error(3)
}

func (m *MockRecommendationCache) Set(ctx context.Context, gen CacheGeneration, bill decimal.Decimal, result *RecommendationResult) error {
	args := m.Called(ctx, gen, bill, result)
	return args.Error(0)
}

func (m *MockRecommendationCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// generationCache is a map-backed RecommendationCache that drops writes from
// an older generation
type generationCache struct {
	mu      sync.Mutex
	gen     CacheGeneration
	entries map[string]*RecommendationResult
}

func newGenerationCache() *generationCache {
	return &generationCache{entries: make(map[string]*RecommendationResult)}
}

func (c *generationCache) Get(_ context.Context, bill decimal.Decimal) (*RecommendationResult, CacheGeneration, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[bill.String()]
	return r, c.gen, ok, nil
}

func (c *generationCache) Set(_ context.Context, gen CacheGeneration, bill decimal.Decimal, result *RecommendationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.entries[bill.String()] = result
	}
	return nil
}

func (c *generationCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string]*RecommendationResult)
	return nil
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) StatObject(ctx context.Context, storageKey string) (ObjectInfo, bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Get(0).(ObjectInfo), args.Bool(1), args.Error(2)
}

type recordedRecommendation struct {
	outcome RecommendationOutcome
	cached  bool
}

type fakeRecorder struct {
	events []recordedRecommendation
}

func (r *fakeRecorder) RecordRecommendation(_ context.Context, outcome RecommendationOutcome, cached bool, _ time.Duration) {
	r.events = append(r.events, recordedRecommendation{outcome: outcome, cached: cached})
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestPackage(name, minBill, maxBill string) *catalog.SolarPackage {
	pkg, err := catalog.NewSolarPackage(catalog.PackageFields{
		Name:       name,
		MinBill:    decPtr(minBill),
		MaxBill:    decPtr(maxBill),
		TotalPrice: decPtr("100000"),
	})
	if err != nil {
		panic(err)
	}
	return pkg
}

func newTestProduct(name, price string) *catalog.Product {
	p, err := catalog.NewProduct(name, decimal.RequireFromString(price))
	if err != nil {
		panic(err)
	}
	return p
}
