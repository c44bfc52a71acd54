package catalog

import (
	"context"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds the existing products among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter.
	// Supported filter keys: "status", "category".
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter, ignoring pagination
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks whether another product already uses the SKU
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)

	// FindBySKUs finds the products using any of skus, compared case-insensitively
	FindBySKUs(ctx context.Context, skus []string) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveAll creates or updates every product in one transaction
	SaveAll(ctx context.Context, products []*Product) error

	// Delete deletes a product. Line items referencing it are left in place.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SolarPackageRepository defines persistence for packages and their line items.
// Every method that writes both a package row and its line items does so in one
// transaction.
type SolarPackageRepository interface {
	// FindByID finds a package by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SolarPackage, error)

	// FindAll lists packages ordered by min_bill, created_at, id.
	// A nil status lists every package.
	FindAll(ctx context.Context, status *PackageStatus) ([]SolarPackage, error)

	// FindCandidatesForBill lists active packages whose band contains bill
	FindCandidatesForBill(ctx context.Context, bill decimal.Decimal) ([]SolarPackage, error)

	// ExistsByID checks whether a package exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Create inserts the package and its initial line items
	Create(ctx context.Context, pkg *SolarPackage, items []PackageLineItem) error

	// Update overwrites the package's scalar fields and leaves line items alone
	Update(ctx context.Context, pkg *SolarPackage) error

	// UpdateWithLineItems overwrites the scalar fields and replaces all line items
	UpdateWithLineItems(ctx context.Context, pkg *SolarPackage, items []PackageLineItem) error

	// Delete removes the package and all of its line items
	Delete(ctx context.Context, id uuid.UUID) error

	// SetLineItems replaces every line item of the package
	SetLineItems(ctx context.Context, packageID uuid.UUID, items []PackageLineItem) error

	// FindLineItemsWithProductInfo returns line items joined with their products.
	// Items whose product no longer exists are omitted.
	FindLineItemsWithProductInfo(ctx context.Context, packageID uuid.UUID) ([]LineItemWithProduct, error)
}
