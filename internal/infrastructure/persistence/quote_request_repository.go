package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/inquiry"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRequestRepository implements inquiry.QuoteRequestRepository using GORM
type GormQuoteRequestRepository struct {
	db *gorm.DB
}

// NewGormQuoteRequestRepository creates a new GormQuoteRequestRepository
func NewGormQuoteRequestRepository(db *gorm.DB) *GormQuoteRequestRepository {
	return &GormQuoteRequestRepository{db: db}
}

// FindByID finds a quote request by its ID
func (r *GormQuoteRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*inquiry.QuoteRequest, error) {
	var model models.QuoteRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds quote requests matching the filter, newest first by default
func (r *GormQuoteRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inquiry.QuoteRequest, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QuoteRequestModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	sortField := ValidateSortField(filter.OrderBy, QuoteRequestSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	var rows []models.QuoteRequestModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	quotes := make([]inquiry.QuoteRequest, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, nil
}

// Count counts quote requests matching the filter
func (r *GormQuoteRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QuoteRequestModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quote request
func (r *GormQuoteRequestRepository) Save(ctx context.Context, quote *inquiry.QuoteRequest) error {
	return r.db.WithContext(ctx).Save(models.QuoteRequestModelFromDomain(quote)).Error
}

func (r *GormQuoteRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(city) LIKE ?", pattern, pattern, pattern)
	}
	if status, ok := filter.Equals["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Ensure GormQuoteRequestRepository implements inquiry.QuoteRequestRepository
var _ inquiry.QuoteRequestRepository = (*GormQuoteRequestRepository)(nil)
