package catalog

import (
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoMatchMessage is returned when no active package covers the bill
const NoMatchMessage = "No suitable package found for this bill amount"

// =============================================================================
// Solar packages
// =============================================================================

// LineItemRequest is one product and quantity in a package's product list
type LineItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CreatePackageRequest represents a request to create a solar package
type CreatePackageRequest struct {
	Name             string            `json:"name" binding:"required,min=1,max=200"`
	Description      string            `json:"description" binding:"max=4000"`
	MinBill          *decimal.Decimal  `json:"min_bill" binding:"required"`
	MaxBill          *decimal.Decimal  `json:"max_bill" binding:"required"`
	SystemPower      string            `json:"system_power" binding:"max=100"`
	TotalPrice       *decimal.Decimal  `json:"total_price" binding:"required"`
	InstallationCost *decimal.Decimal  `json:"installation_cost"`
	Features         []string          `json:"features" binding:"omitempty,max=50,dive,max=200"`
	Status           string            `json:"status" binding:"omitempty,oneof=active inactive"`
	Products         []LineItemRequest `json:"products" binding:"omitempty,dive"`
}

// SetLineItemsRequest replaces a package's product list. An empty list clears it.
type SetLineItemsRequest struct {
	Products []LineItemRequest `json:"products" binding:"required,dive"`
}

// UpdatePackageRequest replaces every scalar field of a package.
// A nil Products leaves line items alone; an empty list clears them.
type UpdatePackageRequest struct {
	Name             string             `json:"name" binding:"required,min=1,max=200"`
	Description      string             `json:"description" binding:"max=4000"`
	MinBill          *decimal.Decimal   `json:"min_bill" binding:"required"`
	MaxBill          *decimal.Decimal   `json:"max_bill" binding:"required"`
	SystemPower      string             `json:"system_power" binding:"max=100"`
	TotalPrice       *decimal.Decimal   `json:"total_price" binding:"required"`
	InstallationCost *decimal.Decimal   `json:"installation_cost"`
	Features         []string           `json:"features" binding:"omitempty,max=50,dive,max=200"`
	Status           string             `json:"status" binding:"omitempty,oneof=active inactive"`
	Products         *[]LineItemRequest `json:"products" binding:"omitempty,dive"`
}

// PackageListFilter represents filter options for the package list
type PackageListFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// PackageResponse represents a solar package in API responses
type PackageResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	MinBill          decimal.Decimal `json:"min_bill"`
	MaxBill          decimal.Decimal `json:"max_bill"`
	SystemPower      string          `json:"system_power"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	InstallationCost decimal.Decimal `json:"installation_cost"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	Features         []string        `json:"features"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LineItemResponse represents a line item joined with its product
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ImageURL    string          `json:"image_url"`
}

// PackageDetailResponse is a package together with its line items
type PackageDetailResponse struct {
	PackageResponse
	LineItems []LineItemResponse `json:"line_items"`
}

// RecommendationResult is the outcome of a recommendation.
// Matched is false, with Message set, when no active package covers the bill.
type RecommendationResult struct {
	Matched    bool                   `json:"matched"`
	BillAmount decimal.Decimal        `json:"bill_amount"`
	Message    string                 `json:"message,omitempty"`
	Package    *PackageDetailResponse `json:"package,omitempty"`
}

// ToPackageFields converts a create request to domain package fields
func (r CreatePackageRequest) ToPackageFields() catalog.PackageFields {
	return catalog.PackageFields{
		Name:             r.Name,
		Description:      r.Description,
		MinBill:          r.MinBill,
		MaxBill:          r.MaxBill,
		SystemPower:      r.SystemPower,
		TotalPrice:       r.TotalPrice,
		InstallationCost: r.InstallationCost,
		Features:         r.Features,
		Status:           catalog.PackageStatus(r.Status),
	}
}

// ToPackageFields converts an update request to domain package fields
func (r UpdatePackageRequest) ToPackageFields() catalog.PackageFields {
	return catalog.PackageFields{
		Name:             r.Name,
		Description:      r.Description,
		MinBill:          r.MinBill,
		MaxBill:          r.MaxBill,
		SystemPower:      r.SystemPower,
		TotalPrice:       r.TotalPrice,
		InstallationCost: r.InstallationCost,
		Features:         r.Features,
		Status:           catalog.PackageStatus(r.Status),
	}
}

// ToLineItemInputs converts request line items to domain inputs
func ToLineItemInputs(items []LineItemRequest) []catalog.LineItemInput {
	inputs := make([]catalog.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = catalog.LineItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return inputs
}

// ToPackageResponse converts a domain package to a response DTO
func ToPackageResponse(p *catalog.SolarPackage) PackageResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PackageResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		MinBill:          p.MinBill,
		MaxBill:          p.MaxBill,
		SystemPower:      p.SystemPower,
		TotalPrice:       p.TotalPrice,
		InstallationCost: p.InstallationCost,
		GrandTotal:       p.GrandTotal(),
		Features:         features,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToPackageResponses converts a slice of domain packages to response DTOs
func ToPackageResponses(packages []catalog.SolarPackage) []PackageResponse {
	responses := make([]PackageResponse, len(packages))
	for i := range packages {
		responses[i] = ToPackageResponse(&packages[i])
	}
	return responses
}

// ToPackageDetailResponse combines a package with its joined line items
func ToPackageDetailResponse(p *catalog.SolarPackage, items []catalog.LineItemWithProduct) PackageDetailResponse {
	lineItems := make([]LineItemResponse, len(items))
	for i, item := range items {
		lineItems[i] = LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
			ImageURL:    item.ImageURL,
		}
	}
	return PackageDetailResponse{
		PackageResponse: ToPackageResponse(p),
		LineItems:       lineItems,
	}
}

// =============================================================================
// Products
// =============================================================================

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required,min=1,max=200"`
	SKU            string            `json:"sku" binding:"max=50"`
	Description    string            `json:"description" binding:"max=4000"`
	Category       string            `json:"category" binding:"max=100"`
	UnitPrice      *decimal.Decimal  `json:"unit_price" binding:"required"`
	Stock          *int              `json:"stock" binding:"omitempty,min=0"`
	Specifications map[string]string `json:"specifications"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name           *string            `json:"name" binding:"omitempty,min=1,max=200"`
	SKU            *string            `json:"sku" binding:"omitempty,max=50"`
	Description    *string            `json:"description" binding:"omitempty,max=4000"`
	Category       *string            `json:"category" binding:"omitempty,max=100"`
	UnitPrice      *decimal.Decimal   `json:"unit_price"`
	Stock          *int               `json:"stock" binding:"omitempty,min=0"`
	Specifications *map[string]string `json:"specifications"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	SKU            string            `json:"sku"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Stock          int               `json:"stock"`
	ImageURL       string            `json:"image_url"`
	Specifications map[string]string `json:"specifications"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	specs := p.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Description:    p.Description,
		Category:       p.Category,
		UnitPrice:      p.UnitPrice,
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
		Specifications: specs,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// =============================================================================
// Product images
// =============================================================================

// ImageUploadURLRequest requests a presigned upload URL for a product image
type ImageUploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadURLResponse carries the presigned upload URL and its storage key
type ImageUploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ConfirmImageRequest confirms that an image was uploaded to StorageKey
type ConfirmImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=512"`
}
