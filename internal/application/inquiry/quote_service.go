// Package inquiry contains the quote request use cases.
package inquiry

import (
	"context"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/inquiry"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteService handles customer quote requests
type QuoteService struct {
	quoteRepo   inquiry.QuoteRequestRepository
	packageRepo catalog.SolarPackageRepository
	logger      *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo inquiry.QuoteRequestRepository,
	packageRepo catalog.SolarPackageRepository,
	logger *zap.Logger,
) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quoteRepo:   quoteRepo,
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// Submit records a new quote request. A referenced package must exist.
func (s *QuoteService) Submit(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	if req.PackageID != nil {
		exists, err := s.packageRepo.ExistsByID(ctx, *req.PackageID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewValidationError("Referenced solar package does not exist")
		}
	}

	quote, err := inquiry.NewQuoteRequest(inquiry.ContactDetails{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		City:     req.City,
		Message:  req.Message,
	}, req.MonthlyBill, req.PackageID)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	s.logger.Info("Quote request received",
		zap.String("quote_id", quote.ID.String()),
		zap.String("monthly_bill", quote.MonthlyBill.String()))

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote request
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quote requests with filtering and pagination
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
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

	quotes, err := s.quoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToQuoteResponses(quotes), total, nil
}

// UpdateStatus moves a quote request to a new status
func (s *QuoteService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateQuoteStatusRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quote.TransitionTo(inquiry.QuoteStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}
