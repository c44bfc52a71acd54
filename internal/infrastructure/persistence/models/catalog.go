package models

import (
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name           string                `gorm:"type:varchar(200);not null"`
	SKU            *string               `gorm:"column:sku;type:varchar(50);uniqueIndex"`
	Description    string                `gorm:"type:text"`
	Category       string                `gorm:"type:varchar(100);index"`
	UnitPrice      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Stock          int                   `gorm:"not null;default:0"`
	ImageURL       string                `gorm:"column:image_url;type:varchar(1000)"`
	ImageKey       string                `gorm:"column:image_key;type:varchar(500)"`
	Specifications string                `gorm:"type:jsonb;default:'{}'"`
	Status         catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		Description:    m.Description,
		Category:       m.Category,
		UnitPrice:      m.UnitPrice,
		Stock:          m.Stock,
		ImageURL:       m.ImageURL,
		ImageKey:       m.ImageKey,
		Specifications: decodeStringMap(m.Specifications),
		Status:         m.Status,
	}
	if m.SKU != nil {
		p.SKU = *m.SKU
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.SKU = nil
	if p.SKU != "" {
		sku := p.SKU
		m.SKU = &sku
	}
	m.Description = p.Description
	m.Category = p.Category
	m.UnitPrice = p.UnitPrice
	m.Stock = p.Stock
	m.ImageURL = p.ImageURL
	m.ImageKey = p.ImageKey
	m.Specifications = encodeJSON(p.Specifications, "{}")
	m.Status = p.Status
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// SolarPackageModel is the persistence model for the SolarPackage aggregate.
type SolarPackageModel struct {
	BaseModel
	Name             string                `gorm:"type:varchar(200);not null"`
	Description      string                `gorm:"type:text"`
	MinBill          decimal.Decimal       `gorm:"type:decimal(18,4);not null;index:idx_solar_packages_band,priority:1"`
	MaxBill          decimal.Decimal       `gorm:"type:decimal(18,4);not null;index:idx_solar_packages_band,priority:2"`
	SystemPower      string                `gorm:"type:varchar(100)"`
	TotalPrice       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	InstallationCost decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Features         string                `gorm:"type:jsonb;default:'[]'"`
	Status           catalog.PackageStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (SolarPackageModel) TableName() string {
	return "solar_packages"
}

// ToDomain converts the persistence model to a domain SolarPackage.
func (m *SolarPackageModel) ToDomain() *catalog.SolarPackage {
	return &catalog.SolarPackage{
		BaseEntity:       m.BaseModel.ToDomain(),
		Name:             m.Name,
		Description:      m.Description,
		MinBill:          m.MinBill,
		MaxBill:          m.MaxBill,
		SystemPower:      m.SystemPower,
		TotalPrice:       m.TotalPrice,
		InstallationCost: m.InstallationCost,
		Features:         decodeStrings(m.Features),
		Status:           m.Status,
	}
}

// FromDomain populates the persistence model from a domain SolarPackage.
func (m *SolarPackageModel) FromDomain(p *catalog.SolarPackage) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.MinBill = p.MinBill
	m.MaxBill = p.MaxBill
	m.SystemPower = p.SystemPower
	m.TotalPrice = p.TotalPrice
	m.InstallationCost = p.InstallationCost
	m.Features = encodeJSON(p.Features, "[]")
	m.Status = p.Status
}

// SolarPackageModelFromDomain creates a new persistence model from a domain SolarPackage.
func SolarPackageModelFromDomain(p *catalog.SolarPackage) *SolarPackageModel {
	m := &SolarPackageModel{}
	m.FromDomain(p)
	return m
}

// PackageLineItemModel is the persistence model for a package line item.
// product_id carries no foreign key: deleting a product must not fail or cascade.
type PackageLineItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PackageLineItemModel) TableName() string {
	return "package_line_items"
}

// ToDomain converts the persistence model to a domain PackageLineItem.
func (m *PackageLineItemModel) ToDomain() catalog.PackageLineItem {
	return catalog.PackageLineItem{
		ID:        m.ID,
		PackageID: m.PackageID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Position:  m.Position,
	}
}

// PackageLineItemModelFromDomain creates a persistence model from a domain line item.
func PackageLineItemModelFromDomain(item catalog.PackageLineItem) PackageLineItemModel {
	return PackageLineItemModel{
		ID:        item.ID,
		PackageID: item.PackageID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Position:  item.Position,
	}
}

// LineItemProductRow is the scan target of the line item / product join.
type LineItemProductRow struct {
	ID          uuid.UUID
	PackageID   uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
	Position    int
	ProductName string
	UnitPrice   decimal.Decimal
	ImageURL    string
}

// ToDomain converts the joined row to a domain LineItemWithProduct.
func (r *LineItemProductRow) ToDomain() catalog.LineItemWithProduct {
	return catalog.LineItemWithProduct{
		PackageLineItem: catalog.PackageLineItem{
			ID:        r.ID,
			PackageID: r.PackageID,
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Position:  r.Position,
		},
		ProductName: r.ProductName,
		UnitPrice:   r.UnitPrice,
		ImageURL:    r.ImageURL,
	}
}
