package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CodePrintingUnavailable is returned when no PDF renderer is configured
const CodePrintingUnavailable = "PRINTING_UNAVAILABLE"

// OfferSheet is the data printed on a package offer
type OfferSheet struct {
	Package PackageDetailResponse
	// BillAmount is the customer's monthly bill, when the offer was asked for one
	BillAmount *decimal.Decimal
	// ProductsTotal sums the line item subtotals at current unit prices
	ProductsTotal decimal.Decimal
	IssuedAt      time.Time
	ValidUntil    time.Time
}

// OfferPrinter renders an offer sheet as a PDF document
type OfferPrinter interface {
	PrintOffer(ctx context.Context, offer OfferSheet) ([]byte, error)
}

// OfferDocument is a rendered offer ready for download
type OfferDocument struct {
	FileName string
	Content  []byte
}

// OfferService produces printable offers for solar packages
type OfferService struct {
	packageRepo catalog.SolarPackageRepository
	printer     OfferPrinter
	validFor    time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewOfferService creates a new OfferService. printer may be nil, in which
// case every request fails with CodePrintingUnavailable.
func NewOfferService(packageRepo catalog.SolarPackageRepository, printer OfferPrinter, validFor time.Duration) *OfferService {
	if validFor <= 0 {
		validFor = 30 * 24 * time.Hour
	}
	return &OfferService{
		packageRepo: packageRepo,
		printer:     printer,
		validFor:    validFor,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger used for render failures
func (s *OfferService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Generate renders the offer for an active package. When bill is given it
// must fall inside the package's bill band.
func (s *OfferService) Generate(ctx context.Context, id uuid.UUID, bill *decimal.Decimal) (*OfferDocument, error) {
	if s.printer == nil {
		return nil, shared.NewDomainError(CodePrintingUnavailable, "Offer printing is not enabled")
	}

	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Package is not currently offered")
	}
	if bill != nil {
		if err := catalog.ValidateBillAmount(*bill); err != nil {
			return nil, err
		}
		if !pkg.Covers(*bill) {
			return nil, shared.NewValidationError("Bill amount is outside this package's bill band")
		}
	}

	items, err := s.packageRepo.FindLineItemsWithProductInfo(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}

	detail := ToPackageDetailResponse(pkg, items)
	total := decimal.Zero
	for _, item := range detail.LineItems {
		total = total.Add(item.Subtotal)
	}
	issued := s.now()
	sheet := OfferSheet{
		Package:       detail,
		BillAmount:    bill,
		ProductsTotal: total,
		IssuedAt:      issued,
		ValidUntil:    issued.Add(s.validFor),
	}

	content, err := s.printer.PrintOffer(ctx, sheet)
	if err != nil {
		s.logger.Error("Offer rendering failed", zap.String("package_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("render offer: %w", err)
	}

	return &OfferDocument{
		FileName: offerFileName(pkg.Name, issued),
		Content:  content,
	}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// offerFileName builds an ASCII file name like "offer-home-5kw-20250101.pdf"
func offerFileName(name string, at time.Time) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "package"
	}
	return fmt.Sprintf("offer-%s-%s.pdf", slug, at.Format("20060102"))
}
