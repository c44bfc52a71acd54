package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PackageService handles solar package operations and recommendations
type PackageService struct {
	packageRepo catalog.SolarPackageRepository
	productRepo catalog.ProductRepository
	cache       RecommendationCache
	recorder    RecommendationRecorder
	logger      *zap.Logger
}

// NewPackageService creates a new PackageService.
// cache may be nil, in which case every recommendation reads the database.
func NewPackageService(
	packageRepo catalog.SolarPackageRepository,
	productRepo catalog.ProductRepository,
	cache RecommendationCache,
) *PackageService {
	return &PackageService{
		packageRepo: packageRepo,
		productRepo: productRepo,
		cache:       cache,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger used for cache failures
func (s *PackageService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetRecorder sets the recommendation metrics recorder
func (s *PackageService) SetRecorder(recorder RecommendationRecorder) {
	s.recorder = recorder
}

// Create creates a package and, when products are given, its line items
func (s *PackageService) Create(ctx context.Context, req CreatePackageRequest) (*PackageDetailResponse, error) {
	pkg, err := catalog.NewSolarPackage(req.ToPackageFields())
	if err != nil {
		return nil, err
	}

	inputs := ToLineItemInputs(req.Products)
	items, err := catalog.BuildLineItems(pkg.ID, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProductsExist(ctx, inputs); err != nil {
		return nil, err
	}

	if err := s.packageRepo.Create(ctx, pkg, items); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.detail(ctx, pkg)
}

// GetByID retrieves a package with its line items
func (s *PackageService) GetByID(ctx context.Context, id uuid.UUID) (*PackageDetailResponse, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, pkg)
}

// List lists packages ordered by min_bill ascending
func (s *PackageService) List(ctx context.Context, filter PackageListFilter) ([]PackageResponse, error) {
	var status *catalog.PackageStatus
	if filter.Status != "" {
		st := catalog.PackageStatus(filter.Status)
		if !st.IsValid() {
			return nil, shared.NewValidationError("Package status must be active or inactive")
		}
		status = &st
	}

	packages, err := s.packageRepo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return ToPackageResponses(packages), nil
}

// Update overwrites the package's scalar fields. Line items are replaced only
// when req.Products is non-nil.
func (s *PackageService) Update(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*PackageDetailResponse, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pkg.Update(req.ToPackageFields()); err != nil {
		return nil, err
	}

	if req.Products == nil {
		if err := s.packageRepo.Update(ctx, pkg); err != nil {
			return nil, err
		}
	} else {
		inputs := ToLineItemInputs(*req.Products)
		items, err := catalog.BuildLineItems(pkg.ID, inputs)
		if err != nil {
			return nil, err
		}
		if err := s.ensureProductsExist(ctx, inputs); err != nil {
			return nil, err
		}
		if err := s.packageRepo.UpdateWithLineItems(ctx, pkg, items); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx)

	return s.detail(ctx, pkg)
}

// SetLineItems replaces the product list of a package and leaves its scalar
// fields alone
func (s *PackageService) SetLineItems(ctx context.Context, id uuid.UUID, req SetLineItemsRequest) (*PackageDetailResponse, error) {
	inputs := ToLineItemInputs(req.Products)
	items, err := catalog.BuildLineItems(id, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProductsExist(ctx, inputs); err != nil {
		return nil, err
	}
	if err := s.packageRepo.SetLineItems(ctx, id, items); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.GetByID(ctx, id)
}

// Delete removes a package and its line items
func (s *PackageService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.packageRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Recommend returns the best active package for a monthly bill.
// No covering package is a normal result with Matched set to false.
func (s *PackageService) Recommend(ctx context.Context, bill decimal.Decimal) (result *RecommendationResult, err error) {
	start := time.Now()
	cached := false
	defer func() {
		s.record(ctx, result, err, cached, time.Since(start))
	}()

	if err := catalog.ValidateBillAmount(bill); err != nil {
		return nil, err
	}

	// The generation is read before the catalog, so a write that lands in
	// between leaves the result below unstored
	var (
		gen       CacheGeneration
		cacheable bool
	)
	if s.cache != nil {
		hit, g, found, cacheErr := s.cache.Get(ctx, bill)
		if cacheErr != nil {
			s.logger.Warn("Recommendation cache read failed",
				zap.String("bill", bill.String()), zap.Error(cacheErr))
		} else if found {
			cached = true
			return hit, nil
		} else {
			gen, cacheable = g, true
		}
	}

	candidates, err := s.packageRepo.FindCandidatesForBill(ctx, bill)
	if err != nil {
		return nil, err
	}

	result = &RecommendationResult{BillAmount: bill}
	best, ok := catalog.SelectBestPackage(candidates, bill)
	if !ok {
		result.Message = NoMatchMessage
	} else {
		detail, err := s.detail(ctx, best)
		if err != nil {
			return nil, err
		}
		result.Matched = true
		result.Package = detail
	}

	if cacheable {
		if cacheErr := s.cache.Set(ctx, gen, bill, result); cacheErr != nil {
			s.logger.Warn("Recommendation cache write failed",
				zap.String("bill", bill.String()), zap.Error(cacheErr))
		}
	}
	return result, nil
}

// InvalidateRecommendations drops every cached recommendation
func (s *PackageService) InvalidateRecommendations(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *PackageService) detail(ctx context.Context, pkg *catalog.SolarPackage) (*PackageDetailResponse, error) {
	items, err := s.packageRepo.FindLineItemsWithProductInfo(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}
	response := ToPackageDetailResponse(pkg, items)
	return &response, nil
}

func (s *PackageService) ensureProductsExist(ctx context.Context, inputs []catalog.LineItemInput) error {
	ids := catalog.ProductIDs(inputs)
	if len(ids) == 0 {
		return nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return shared.NewValidationError(fmt.Sprintf("Product %s does not exist", id))
		}
	}
	return nil
}

func (s *PackageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Recommendation cache invalidation failed", zap.Error(err))
	}
}

func (s *PackageService) record(ctx context.Context, result *RecommendationResult, err error, cached bool, d time.Duration) {
	if s.recorder == nil {
		return
	}
	outcome := RecommendationFailed
	switch {
	case err != nil:
		if shared.IsValidationError(err) {
			outcome = RecommendationInvalid
		}
	case result.Matched:
		outcome = RecommendationMatched
	default:
		outcome = RecommendationNoMatch
	}
	s.recorder.RecordRecommendation(ctx, outcome, cached, d)
}
