package catalog

import (
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid reports whether the status is a known product status
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product is a unit catalog entry (panel, inverter, battery, mounting kit, ...).
// Line items reference products but never own them.
type Product struct {
	shared.BaseEntity
	Name           string
	SKU            string
	Description    string
	Category       string
	UnitPrice      decimal.Decimal
	Stock          int
	ImageURL       string
	ImageKey       string
	Specifications map[string]string
	Status         ProductStatus
}

// NewProduct creates a new active product
func NewProduct(name string, unitPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnitPrice(unitPrice); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           strings.TrimSpace(name),
		UnitPrice:      unitPrice,
		Specifications: map[string]string{},
		Status:         ProductStatusActive,
	}, nil
}

// Update updates the product's descriptive information
func (p *Product) Update(name, description, category string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(category) > 100 {
		return shared.NewValidationError("Product category cannot exceed 100 characters")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Category = strings.TrimSpace(category)
	p.Touch()
	return nil
}

// SetSKU sets the stock keeping unit. An empty SKU clears it.
func (p *Product) SetSKU(sku string) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if len(sku) > 50 {
		return shared.NewValidationError("Product SKU cannot exceed 50 characters")
	}
	p.SKU = sku
	p.Touch()
	return nil
}

// SetUnitPrice sets the product's unit price
func (p *Product) SetUnitPrice(price decimal.Decimal) error {
	if err := validateUnitPrice(price); err != nil {
		return err
	}
	p.UnitPrice = price
	p.Touch()
	return nil
}

// SetStock records the informational stock level. Stock is never reserved.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewValidationError("Product stock cannot be negative")
	}
	p.Stock = stock
	p.Touch()
	return nil
}

// SetSpecifications replaces the technical specification map (e.g. "power": "550W")
func (p *Product) SetSpecifications(specs map[string]string) {
	cleaned := make(map[string]string, len(specs))
	for k, v := range specs {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		cleaned[k] = v
	}
	p.Specifications = cleaned
	p.Touch()
}

// SetImage records the stored image object and its public URL
func (p *Product) SetImage(storageKey, url string) {
	p.ImageKey = storageKey
	p.ImageURL = url
	p.Touch()
}

// Activate makes the product available for new packages
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError(shared.CodeInvalidState, "Product is already active")
	}
	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// Deactivate hides the product from public listings
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError(shared.CodeInvalidState, "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.Touch()
	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnitPrice(price decimal.Decimal) error {
	if !shared.AmountInRange(price) {
		return shared.NewValidationError("Product unit price is out of range")
	}
	if price.IsNegative() {
		return shared.NewValidationError("Product unit price cannot be negative")
	}
	return nil
}
