package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConflictMode decides what happens to a row whose SKU already exists
type ConflictMode string

const (
	ConflictModeSkip   ConflictMode = "skip"
	ConflictModeUpdate ConflictMode = "update"
	ConflictModeFail   ConflictMode = "fail"
)

// IsValid checks if the conflict mode is valid
func (m ConflictMode) IsValid() bool {
	switch m {
	case ConflictModeSkip, ConflictModeUpdate, ConflictModeFail:
		return true
	}
	return false
}

// Import limits
const (
	DefaultImportMaxRows   = 5000
	DefaultImportMaxErrors = 100
)

// ProductImportRequest configures one import run
type ProductImportRequest struct {
	ConflictMode ConflictMode
	// DryRun validates the file without writing anything
	DryRun bool
}

// ProductImportResult summarizes an import. When Errors is non-empty nothing
// was written.
type ProductImportResult struct {
	TotalRows   int                  `json:"total_rows"`
	CreatedRows int                  `json:"created_rows"`
	UpdatedRows int                  `json:"updated_rows"`
	SkippedRows int                  `json:"skipped_rows"`
	ErrorRows   int                  `json:"error_rows"`
	Errors      []csvimport.RowError `json:"errors"`
	IsTruncated bool                 `json:"is_truncated,omitempty"`
	TotalErrors int                  `json:"total_errors,omitempty"`
	DryRun      bool                 `json:"dry_run"`
}

// ProductImportService loads products in bulk from a CSV export
type ProductImportService struct {
	productRepo catalog.ProductRepository
	cache       RecommendationCache
	maxRows     int
	maxErrors   int
	logger      *zap.Logger
}

// NewProductImportService creates a new ProductImportService
func NewProductImportService(productRepo catalog.ProductRepository, cache RecommendationCache) *ProductImportService {
	return &ProductImportService{
		productRepo: productRepo,
		cache:       cache,
		maxRows:     DefaultImportMaxRows,
		maxErrors:   DefaultImportMaxErrors,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger used for import summaries and cache failures
func (s *ProductImportService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetMaxRows changes the row limit. Non-positive values are ignored.
func (s *ProductImportService) SetMaxRows(n int) {
	if n > 0 {
		s.maxRows = n
	}
}

// Rules returns the column rules applied to every row
func (s *ProductImportService) Rules() []csvimport.Rule {
	zero := decimal.Zero
	return []csvimport.Rule{
		csvimport.Column("name").Required().MaxLength(200).Build(),
		csvimport.Column("sku").MaxLength(50).Unique().Build(),
		csvimport.Column("unit_price").Required().Decimal().Min(zero).Build(),
		csvimport.Column("stock").Int().Min(zero).Build(),
		csvimport.Column("category").MaxLength(100).Build(),
		csvimport.Column("description").MaxLength(4000).Build(),
		csvimport.Column("status").OneOf(string(catalog.ProductStatusActive), string(catalog.ProductStatusInactive)).Build(),
	}
}

// Import reads r and creates or updates one product per row. The file is
// validated completely first; if any row fails, nothing is written.
func (s *ProductImportService) Import(ctx context.Context, r io.Reader, req ProductImportRequest) (*ProductImportResult, error) {
	mode := req.ConflictMode
	if mode == "" {
		mode = ConflictModeSkip
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError("conflict_mode must be one of: skip, update, fail")
	}

	rules := s.Rules()
	rows, err := s.readRows(r, rules)
	if err != nil {
		return nil, err
	}

	result := &ProductImportResult{TotalRows: len(rows), DryRun: req.DryRun}
	validator := csvimport.NewRowValidator(rules, s.maxErrors)
	valid := make([]csvimport.Row, 0, len(rows))
	for _, row := range rows {
		if validator.Validate(row) {
			valid = append(valid, row)
		}
	}
	collected := validator.Errors()

	existing, err := s.existingBySKU(ctx, valid)
	if err != nil {
		return nil, err
	}

	var toSave []*catalog.Product
	for _, row := range valid {
		sku := strings.ToUpper(row.Get("sku"))
		current, conflict := existing[sku]
		switch {
		case !conflict:
			product, err := productFromRow(row)
			if err != nil {
				rejectRow(collected, row.Line, err)
				continue
			}
			toSave = append(toSave, product)
			result.CreatedRows++
		case mode == ConflictModeSkip:
			result.SkippedRows++
		case mode == ConflictModeFail:
			collected.Add(csvimport.RowError{
				Row:     row.Line,
				Column:  "sku",
				Code:    csvimport.CodeDuplicate,
				Message: "a product with this SKU already exists",
				Value:   sku,
			})
		default:
			if err := applyRow(current, row); err != nil {
				rejectRow(collected, row.Line, err)
				continue
			}
			toSave = append(toSave, current)
			result.UpdatedRows++
		}
	}

	if !collected.Empty() {
		result.CreatedRows, result.UpdatedRows, result.SkippedRows = 0, 0, 0
		result.ErrorRows = collected.Rows()
		result.Errors = collected.Errors()
		result.IsTruncated = collected.Truncated()
		result.TotalErrors = collected.Total()
		return result, nil
	}
	result.Errors = []csvimport.RowError{}

	if req.DryRun || len(toSave) == 0 {
		return result, nil
	}
	if err := s.productRepo.SaveAll(ctx, toSave); err != nil {
		return nil, fmt.Errorf("save imported products: %w", err)
	}
	s.logger.Info("Products imported",
		zap.Int("created", result.CreatedRows),
		zap.Int("updated", result.UpdatedRows),
		zap.Int("skipped", result.SkippedRows),
	)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Recommendation cache invalidation failed", zap.Error(err))
		}
	}
	return result, nil
}

func (s *ProductImportService) readRows(r io.Reader, rules []csvimport.Rule) ([]csvimport.Row, error) {
	parser, err := csvimport.NewParser(r, csvimport.WithMaxRows(s.maxRows))
	if err != nil {
		return nil, fileError(err)
	}
	if err := parser.ReadHeader(); err != nil {
		return nil, fileError(err)
	}
	if missing := parser.Missing(csvimport.Required(rules)); len(missing) > 0 {
		return nil, shared.NewValidationError("CSV header is missing required columns: " + strings.Join(missing, ", "))
	}
	rows, err := parser.ReadAll()
	if err != nil {
		return nil, fileError(err)
	}
	return rows, nil
}

func (s *ProductImportService) existingBySKU(ctx context.Context, rows []csvimport.Row) (map[string]*catalog.Product, error) {
	skus := make([]string, 0, len(rows))
	for _, row := range rows {
		if sku := row.Get("sku"); sku != "" {
			skus = append(skus, sku)
		}
	}
	found := make(map[string]*catalog.Product)
	if len(skus) == 0 {
		return found, nil
	}

	products, err := s.productRepo.FindBySKUs(ctx, skus)
	if err != nil {
		return nil, err
	}
	for i := range products {
		found[products[i].SKU] = &products[i]
	}
	return found, nil
}

// fileError turns a parser failure into a validation error, keeping I/O
// failures as they are
func fileError(err error) error {
	for _, known := range []error{
		csvimport.ErrEmptyFile,
		csvimport.ErrInvalidEncoding,
		csvimport.ErrMissingHeader,
		csvimport.ErrDuplicateColumn,
		csvimport.ErrNoDataRows,
		csvimport.ErrTooManyRows,
	} {
		if errors.Is(err, known) {
			return shared.NewValidationError(err.Error())
		}
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return shared.NewValidationError(err.Error())
	}
	return err
}

func productFromRow(row csvimport.Row) (*catalog.Product, error) {
	price, _ := csvimport.ParseDecimal(row.Get("unit_price"))
	product, err := catalog.NewProduct(row.Get("name"), price)
	if err != nil {
		return nil, err
	}
	if err := product.Update(row.Get("name"), row.Get("description"), row.Get("category")); err != nil {
		return nil, err
	}
	if err := product.SetSKU(row.Get("sku")); err != nil {
		return nil, err
	}
	if err := applyOptional(product, row); err != nil {
		return nil, err
	}
	return product, nil
}

// applyRow overwrites an existing product. Name and price always come from
// the row; empty optional cells keep the stored value.
func applyRow(product *catalog.Product, row csvimport.Row) error {
	description, category := product.Description, product.Category
	if v := row.Get("description"); v != "" {
		description = v
	}
	if v := row.Get("category"); v != "" {
		category = v
	}
	if err := product.Update(row.Get("name"), description, category); err != nil {
		return err
	}
	price, _ := csvimport.ParseDecimal(row.Get("unit_price"))
	if err := product.SetUnitPrice(price); err != nil {
		return err
	}
	return applyOptional(product, row)
}

func applyOptional(product *catalog.Product, row csvimport.Row) error {
	if v := row.Get("stock"); v != "" {
		stock, _ := strconv.Atoi(v)
		if err := product.SetStock(stock); err != nil {
			return err
		}
	}
	status := catalog.ProductStatus(strings.ToLower(row.Get("status")))
	if status == "" || status == product.Status {
		return nil
	}
	if status == catalog.ProductStatusInactive {
		return product.Deactivate()
	}
	return product.Activate()
}

func rejectRow(c *csvimport.ErrorCollection, line int, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.Reject(line, domainErr.Message)
		return
	}
	c.Reject(line, err.Error())
}
