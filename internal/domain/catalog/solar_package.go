package catalog

import (
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PackageStatus represents the status of a solar package
type PackageStatus string

const (
	PackageStatusActive   PackageStatus = "active"
	PackageStatusInactive PackageStatus = "inactive"
)

// IsValid reports whether the status is a known package status
func (s PackageStatus) IsValid() bool {
	return s == PackageStatusActive || s == PackageStatusInactive
}

var two = decimal.NewFromInt(2)

// PackageFields carries the scalar fields of a package for create and update.
// Required amounts are pointers so that a missing value can be told apart from zero.
type PackageFields struct {
	Name             string
	Description      string
	MinBill          *decimal.Decimal
	MaxBill          *decimal.Decimal
	SystemPower      string
	TotalPrice       *decimal.Decimal
	InstallationCost *decimal.Decimal
	Features         []string
	Status           PackageStatus
}

// SolarPackage is a sellable bundle of products offered for a band of monthly bills.
// TotalPrice is set by the catalog manager and is not derived from line items.
type SolarPackage struct {
	shared.BaseEntity
	Name             string
	Description      string
	MinBill          decimal.Decimal
	MaxBill          decimal.Decimal
	SystemPower      string
	TotalPrice       decimal.Decimal
	InstallationCost decimal.Decimal
	Features         []string
	Status           PackageStatus
}

// NewSolarPackage creates a package from the given fields.
// Status defaults to active and installation cost defaults to zero.
func NewSolarPackage(fields PackageFields) (*SolarPackage, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	pkg := &SolarPackage{BaseEntity: shared.NewBaseEntity()}
	pkg.apply(fields)
	return pkg, nil
}

// Update replaces every scalar field of the package. Line items are untouched.
func (p *SolarPackage) Update(fields PackageFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}

	p.apply(fields)
	p.Touch()
	return nil
}

func (p *SolarPackage) apply(fields PackageFields) {
	p.Name = strings.TrimSpace(fields.Name)
	p.Description = fields.Description
	p.MinBill = *fields.MinBill
	p.MaxBill = *fields.MaxBill
	p.SystemPower = strings.TrimSpace(fields.SystemPower)
	p.TotalPrice = *fields.TotalPrice
	p.InstallationCost = decimal.Zero
	if fields.InstallationCost != nil {
		p.InstallationCost = *fields.InstallationCost
	}
	p.Features = normalizeFeatures(fields.Features)
	p.Status = fields.Status
	if p.Status == "" {
		p.Status = PackageStatusActive
	}
}

// Activate makes the package eligible for recommendation
func (p *SolarPackage) Activate() {
	p.Status = PackageStatusActive
	p.Touch()
}

// Deactivate removes the package from recommendation
func (p *SolarPackage) Deactivate() {
	p.Status = PackageStatusInactive
	p.Touch()
}

// IsActive returns true if the package can be recommended
func (p *SolarPackage) IsActive() bool {
	return p.Status == PackageStatusActive
}

// Covers reports whether bill lies inside the package's bill band, bounds included
func (p *SolarPackage) Covers(bill decimal.Decimal) bool {
	return p.MinBill.LessThanOrEqual(bill) && bill.LessThanOrEqual(p.MaxBill)
}

// Midpoint returns the centre of the bill band
func (p *SolarPackage) Midpoint() decimal.Decimal {
	return p.MinBill.Add(p.MaxBill).Div(two)
}

// DistanceFrom returns |midpoint - bill|
func (p *SolarPackage) DistanceFrom(bill decimal.Decimal) decimal.Decimal {
	return p.Midpoint().Sub(bill).Abs()
}

// GrandTotal returns the bundle price plus installation
func (p *SolarPackage) GrandTotal() decimal.Decimal {
	return p.TotalPrice.Add(p.InstallationCost)
}

// Validate checks required fields and the bill band invariant
func (f PackageFields) Validate() error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return shared.NewValidationError("Package name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Package name cannot exceed 200 characters")
	}
	if f.MinBill == nil {
		return shared.NewValidationError("Package min_bill is required")
	}
	if f.MaxBill == nil {
		return shared.NewValidationError("Package max_bill is required")
	}
	if f.TotalPrice == nil {
		return shared.NewValidationError("Package total_price is required")
	}
	for _, amount := range []*decimal.Decimal{f.MinBill, f.MaxBill, f.TotalPrice, f.InstallationCost} {
		if amount != nil && !shared.AmountInRange(*amount) {
			return shared.NewValidationError("Package amounts must be below " + shared.MaxAmount.String())
		}
	}
	if f.MinBill.IsNegative() || f.MaxBill.IsNegative() {
		return shared.NewValidationError("Package bill band cannot be negative")
	}
	if f.MinBill.GreaterThan(*f.MaxBill) {
		return shared.NewValidationError("Package min_bill cannot exceed max_bill")
	}
	if f.TotalPrice.IsNegative() {
		return shared.NewValidationError("Package total_price cannot be negative")
	}
	if f.InstallationCost != nil && f.InstallationCost.IsNegative() {
		return shared.NewValidationError("Package installation_cost cannot be negative")
	}
	if f.Status != "" && !f.Status.IsValid() {
		return shared.NewValidationError("Package status must be active or inactive")
	}
	return nil
}

func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
