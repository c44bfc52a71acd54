package handler

import (
	"context"
	"net/http"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ProductImageService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, imageService *catalogapp.ProductImageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
	}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	req, ok := bindJSON[catalogapp.CreateProductRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), *req)
	h.reply(c, http.StatusCreated, product, err)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	if id, ok := h.parseID(c, "product"); ok {
		product, err := h.productService.GetByID(c.Request.Context(), id)
		h.reply(c, http.StatusOK, product, err)
	}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  List products with filtering and pagination
// @Tags         products
// @Produce      json
// @Param        search query string false "Search term (name, SKU or description)"
// @Param        status query string false "Product status" Enums(active, inactive)
// @Param        category query string false "Category"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Update the given fields of a product. Omitted fields are left unchanged.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "product")
	if !ok {
		return
	}
	req, ok := bindJSON[catalogapp.UpdateProductRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, *req)
	h.reply(c, http.StatusOK, product, err)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Delete a product. Packages keep their line items, which no longer appear in package details.
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if id, ok := h.parseID(c, "product"); ok {
		err := h.productService.Delete(c.Request.Context(), id)
		h.reply(c, http.StatusOK, MessageData{Message: "Product deleted"}, err)
	}
}

// Activate godoc
// @ID           activateProduct
// @Summary      Activate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	h.setStatus(c, h.productService.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, h.productService.Deactivate)
}

func (h *ProductHandler) setStatus(c *gin.Context, apply func(context.Context, uuid.UUID) (*catalogapp.ProductResponse, error)) {
	if id, ok := h.parseID(c, "product"); ok {
		product, err := apply(c.Request.Context(), id)
		h.reply(c, http.StatusOK, product, err)
	}
}

// RequestImageUpload godoc
// @ID           requestProductImageUpload
// @Summary      Request a product image upload URL
// @Description  Returns a presigned PUT URL. The client uploads the file with the same Content-Type, then confirms it.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageUploadURLRequest true "Image file name and content type"
// @Success      200 {object} APIResponse[catalogapp.ImageUploadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/image/upload-url [post]
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	id, ok := h.parseID(c, "product")
	if !ok {
		return
	}
	req, ok := bindJSON[catalogapp.ImageUploadURLRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	resp, err := h.imageService.RequestUploadURL(c.Request.Context(), id, *req)
	h.reply(c, http.StatusOK, resp, err)
}

// ConfirmImageUpload godoc
// @ID           confirmProductImageUpload
// @Summary      Confirm a product image upload
// @Description  Verifies the uploaded object and makes it the product image. The previous image object is deleted.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ConfirmImageRequest true "Storage key returned with the upload URL"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/image/confirm [post]
func (h *ProductHandler) ConfirmImageUpload(c *gin.Context) {
	id, ok := h.parseID(c, "product")
	if !ok {
		return
	}
	req, ok := bindJSON[catalogapp.ConfirmImageRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	product, err := h.imageService.ConfirmUpload(c.Request.Context(), id, *req)
	h.reply(c, http.StatusOK, product, err)
}
