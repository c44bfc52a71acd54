package catalog

import (
	"context"
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductServiceFixture() (*ProductService, *MockProductRepository, *MockRecommendationCache) {
	repo := new(MockProductRepository)
	cache := new(MockRecommendationCache)
	return NewProductService(repo, cache), repo, cache
}

func TestProductService_Create_Success(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()
	stock := 40
	req := CreateProductRequest{
		Name:           "Panel 550W",
		SKU:            " pnl-550 ",
		Category:       "panel",
		UnitPrice:      decPtr("4500"),
		Stock:          &stock,
		Specifications: map[string]string{"power": "550W", " ": "dropped"},
	}

	repo.On("ExistsBySKU", ctx, "PNL-550", mock.AnythingOfType("uuid.UUID")).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	result, err := service.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Panel 550W", result.Name)
	assert.Equal(t, "PNL-550", result.SKU)
	assert.Equal(t, "panel", result.Category)
	assert.Equal(t, 40, result.Stock)
	assert.Equal(t, map[string]string{"power": "550W"}, result.Specifications)
	assert.Equal(t, "active", result.Status)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestProductService_Create_WithoutSKU(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()

	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	result, err := service.Create(ctx, CreateProductRequest{Name: "Mounting kit", UnitPrice: decPtr("0")})

	require.NoError(t, err)
	assert.Empty(t, result.SKU)
	repo.AssertNotCalled(t, "ExistsBySKU", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	service, repo, _ := newProductServiceFixture()
	ctx := context.Background()

	repo.On("ExistsBySKU", ctx, "INV-5K", mock.AnythingOfType("uuid.UUID")).Return(true, nil)

	_, err := service.Create(ctx, CreateProductRequest{Name: "Inverter", SKU: "inv-5k", UnitPrice: decPtr("25000")})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_Invalid(t *testing.T) {
	service, repo, _ := newProductServiceFixture()

	_, err := service.Create(context.Background(), CreateProductRequest{Name: "Battery", UnitPrice: decPtr("-1")})
	assert.True(t, shared.IsValidationError(err))

	_, err = service.Create(context.Background(), CreateProductRequest{Name: "Battery"})
	assert.True(t, shared.IsValidationError(err))

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_List(t *testing.T) {
	service, repo, _ := newProductServiceFixture()
	ctx := context.Background()
	products := []catalog.Product{*newTestProduct("Panel", "4500"), *newTestProduct("Inverter", "25000")}

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.OrderBy == "name" && f.OrderDir == "asc" &&
			f.Search == "panel" && f.Equals["status"] == "active" && f.Equals["category"] == "panel"
	})
	repo.On("FindAll", ctx, matchFilter).Return(products, nil)
	repo.On("Count", ctx, matchFilter).Return(int64(12), nil)

	result, total, err := service.List(ctx, ProductListFilter{
		Search: " panel ", Status: "active", Category: "panel",
		Page: 2, PageSize: 10, OrderBy: "name", OrderDir: "asc",
	})

	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(12), total)
	repo.AssertExpectations(t)
}

func TestProductService_List_Defaults(t *testing.T) {
	service, repo, _ := newProductServiceFixture()
	ctx := context.Background()

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc" && len(f.Equals) == 0
	})
	repo.On("FindAll", ctx, matchFilter).Return([]catalog.Product{}, nil)
	repo.On("Count", ctx, matchFilter).Return(int64(0), nil)

	result, total, err := service.List(ctx, ProductListFilter{})

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Zero(t, total)
}

func TestProductService_Update_PartialFields(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	product.Category = "panel"

	newPrice := decimal.RequireFromString("4200")
	newName := "Panel 550W Mono"
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	result, err := service.Update(ctx, product.ID, UpdateProductRequest{Name: &newName, UnitPrice: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, "Panel 550W Mono", result.Name)
	assert.Equal(t, "panel", result.Category)
	assert.True(t, newPrice.Equal(result.UnitPrice))
	cache.AssertExpectations(t)
}

func TestProductService_Update_SameSKUSkipsUniquenessCheck(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	require.NoError(t, product.SetSKU("PNL-1"))

	sku := "pnl-1"
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	_, err := service.Update(ctx, product.ID, UpdateProductRequest{SKU: &sku})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ExistsBySKU", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Update_NotFound(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := service.Update(ctx, id, UpdateProductRequest{})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestProductService_Delete(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()
	id := uuid.New()
	repo.On("Delete", ctx, id).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	require.NoError(t, service.Delete(ctx, id))
	cache.AssertExpectations(t)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	service, repo, _ := newProductServiceFixture()
	ctx := context.Background()
	id := uuid.New()
	repo.On("Delete", ctx, id).Return(shared.ErrNotFound)

	assert.ErrorIs(t, service.Delete(ctx, id), shared.ErrNotFound)
}

func TestProductService_ActivateDeactivate(t *testing.T) {
	service, repo, cache := newProductServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")

	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	result, err := service.Deactivate(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", result.Status)

	_, err = service.Deactivate(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	result, err = service.Activate(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)
	repo.AssertNumberOfCalls(t, "Save", 2)
}
