package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newImportFixture() (*ProductImportService, *MockProductRepository, *MockRecommendationCache) {
	repo := new(MockProductRepository)
	cache := new(MockRecommendationCache)
	return NewProductImportService(repo, cache), repo, cache
}

func TestConflictMode_IsValid(t *testing.T) {
	assert.True(t, ConflictModeSkip.IsValid())
	assert.True(t, ConflictModeUpdate.IsValid())
	assert.True(t, ConflictModeFail.IsValid())
	assert.False(t, ConflictMode("merge").IsValid())
}

func TestProductImportService_Import_CreatesProducts(t *testing.T) {
	service, repo, cache := newImportFixture()
	ctx := context.Background()
	csv := "Name,SKU,Unit Price,Stock,Category,Status\n" +
		"Panel 550W,pnl-550,\"4500,50\",40,panel,\n" +
		"Inverter 5kW,inv-5k,18000,,inverter,inactive\n"

	repo.On("FindBySKUs", ctx, []string{"pnl-550", "inv-5k"}).Return([]catalog.Product{}, nil)
	var saved []*catalog.Product
	repo.On("SaveAll", ctx, mock.AnythingOfType("[]*catalog.Product")).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]*catalog.Product) }).
		Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	result, err := service.Import(ctx, strings.NewReader(csv), ProductImportRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.CreatedRows)
	assert.Empty(t, result.Errors)
	require.Len(t, saved, 2)
	assert.Equal(t, "PNL-550", saved[0].SKU)
	assert.True(t, decimal.RequireFromString("4500.50").Equal(saved[0].UnitPrice))
	assert.Equal(t, 40, saved[0].Stock)
	assert.True(t, saved[0].IsActive())
	assert.Equal(t, catalog.ProductStatusInactive, saved[1].Status)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestProductImportService_Import_InvalidRowsWriteNothing(t *testing.T) {
	service, repo, cache := newImportFixture()
	ctx := context.Background()
	csv := "name,sku,unit_price\n" +
		"Panel,A1,100\n" +
		",A2,-5\n" +
		"Battery,a1,abc\n"

	repo.On("FindBySKUs", ctx, []string{"A1"}).Return([]catalog.Product{}, nil)

	result, err := service.Import(ctx, strings.NewReader(csv), ProductImportRequest{})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 0, result.CreatedRows)
	assert.Equal(t, 2, result.ErrorRows)
	assert.Equal(t, 4, result.TotalErrors)

	codes := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, csvimport.CodeRequired)
	assert.Contains(t, codes, csvimport.CodeInvalidRange)
	assert.Contains(t, codes, csvimport.CodeInvalidType)
	assert.Contains(t, codes, csvimport.CodeDuplicate)
	repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestProductImportService_Import_ConflictModes(t *testing.T) {
	csv := "name,sku,unit_price,category\nPanel 600W,PNL-1,5200,\n"

	tests := []struct {
		name        string
		mode        ConflictMode
		wantUpdated int
		wantSkipped int
		wantErrors  int
		wantSave    bool
	}{
		{name: "skip", mode: ConflictModeSkip, wantSkipped: 1},
		{name: "update", mode: ConflictModeUpdate, wantUpdated: 1, wantSave: true},
		{name: "fail", mode: ConflictModeFail, wantErrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, cache := newImportFixture()
			ctx := context.Background()

			existing := newTestProduct("Panel 550W", "4500")
			require.NoError(t, existing.Update("Panel 550W", "mono", "panel"))
			require.NoError(t, existing.SetSKU("PNL-1"))
			repo.On("FindBySKUs", ctx, []string{"PNL-1"}).Return([]catalog.Product{*existing}, nil)
			if tt.wantSave {
				repo.On("SaveAll", ctx, mock.MatchedBy(func(products []*catalog.Product) bool {
					return len(products) == 1 &&
						products[0].ID == existing.ID &&
						products[0].Name == "Panel 600W" &&
						products[0].Category == "panel" &&
						products[0].UnitPrice.Equal(decimal.NewFromInt(5200))
				})).Return(nil)
				cache.On("Invalidate", ctx).Return(nil)
			}

			result, err := service.Import(ctx, strings.NewReader(csv), ProductImportRequest{ConflictMode: tt.mode})

			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, result.UpdatedRows)
			assert.Equal(t, tt.wantSkipped, result.SkippedRows)
			assert.Len(t, result.Errors, tt.wantErrors)
			if !tt.wantSave {
				repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestProductImportService_Import_DryRun(t *testing.T) {
	service, repo, cache := newImportFixture()
	ctx := context.Background()

	result, err := service.Import(ctx, strings.NewReader("name,unit_price\nCable,12\n"), ProductImportRequest{DryRun: true})

	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.CreatedRows)
	repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindBySKUs", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestProductImportService_Import_FileErrors(t *testing.T) {
	service, _, _ := newImportFixture()
	service.SetMaxRows(1)
	ctx := context.Background()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: "  \n"},
		{name: "missing column", body: "name,sku\nPanel,A\n"},
		{name: "no rows", body: "name,unit_price\n"},
		{name: "too many rows", body: "name,unit_price\nA,1\nB,2\n"},
		{name: "duplicate column", body: "name,Name,unit_price\nA,A,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Import(ctx, strings.NewReader(tt.body), ProductImportRequest{})
			require.Error(t, err)
			assert.True(t, shared.IsValidationError(err), "got %v", err)
		})
	}
}

func TestProductImportService_Import_InvalidConflictMode(t *testing.T) {
	service, _, _ := newImportFixture()

	_, err := service.Import(context.Background(), strings.NewReader("name,unit_price\nA,1\n"),
		ProductImportRequest{ConflictMode: "merge"})

	assert.True(t, shared.IsValidationError(err))
}

func TestProductImportService_Import_SaveFailure(t *testing.T) {
	service, repo, cache := newImportFixture()
	ctx := context.Background()

	repo.On("SaveAll", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := service.Import(ctx, strings.NewReader("name,unit_price\nCable,12\n"), ProductImportRequest{})

	require.Error(t, err)
	assert.False(t, shared.IsValidationError(err))
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}
