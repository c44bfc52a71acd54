package catalog

import (
	"fmt"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput is one requested (product, quantity) pairing for a package
type LineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PackageLineItem attaches a quantity of a product to a package.
// Line items are owned by their package and are only ever replaced as a whole set.
type PackageLineItem struct {
	ID        uuid.UUID
	PackageID uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Position  int
}

// LineItemWithProduct is a line item joined with the product it references
type LineItemWithProduct struct {
	PackageLineItem
	ProductName string
	UnitPrice   decimal.Decimal
	ImageURL    string
}

// Subtotal returns unit price times quantity
func (l LineItemWithProduct) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// BuildLineItems validates every input and returns fresh line items for the package.
// Nothing is returned unless all inputs are valid. Duplicate products are kept as
// separate line items.
func BuildLineItems(packageID uuid.UUID, inputs []LineItemInput) ([]PackageLineItem, error) {
	if packageID == uuid.Nil {
		return nil, shared.NewValidationError("Package ID is required for line items")
	}

	items := make([]PackageLineItem, 0, len(inputs))
	for i, in := range inputs {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewValidationError(fmt.Sprintf("products[%d]: product_id is required", i))
		}
		if in.Quantity <= 0 {
			return nil, shared.NewValidationError(fmt.Sprintf("products[%d]: quantity must be a positive integer", i))
		}
		items = append(items, PackageLineItem{
			ID:        uuid.New(),
			PackageID: packageID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Position:  i,
		})
	}
	return items, nil
}

// ProductIDs returns the distinct product ids referenced by the inputs
func ProductIDs(inputs []LineItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.ProductID]; ok {
			continue
		}
		seen[in.ProductID] = struct{}{}
		ids = append(ids, in.ProductID)
	}
	return ids
}
