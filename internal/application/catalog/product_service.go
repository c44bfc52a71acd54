package catalog

import (
	"context"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	cache       RecommendationCache
	logger      *zap.Logger
}

// NewProductService creates a new ProductService.
// Product writes invalidate cache when it is non-nil, since recommendations embed product data.
func NewProductService(productRepo catalog.ProductRepository, cache RecommendationCache) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger used for cache failures
func (s *ProductService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.UnitPrice == nil {
		return nil, shared.NewValidationError("Product unit_price is required")
	}

	product, err := catalog.NewProduct(req.Name, *req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.Category); err != nil {
		return nil, err
	}
	if err := s.applySKU(ctx, product, req.SKU); err != nil {
		return nil, err
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Specifications != nil {
		product.SetSpecifications(req.Specifications)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = strings.TrimSpace(filter.Search)
	domainFilter.Where("status", filter.Status)
	domainFilter.Where("category", filter.Category)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update applies the non-nil fields of req to the product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, description, category := product.Name, product.Description, product.Category
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}
	if err := product.Update(name, description, category); err != nil {
		return nil, err
	}

	if req.SKU != nil {
		if err := s.applySKU(ctx, product, *req.SKU); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		if err := product.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Specifications != nil {
		product.SetSpecifications(*req.Specifications)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product. Package line items referencing it stay in place
// and drop out of joined reads.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Activate activates a product
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate deactivates a product
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) applySKU(ctx context.Context, product *catalog.Product, sku string) error {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	if normalized != "" && normalized != product.SKU {
		exists, err := s.productRepo.ExistsBySKU(ctx, normalized, product.ID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Product with this SKU already exists")
		}
	}
	return product.SetSKU(normalized)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Recommendation cache invalidation failed", zap.Error(err))
	}
}
