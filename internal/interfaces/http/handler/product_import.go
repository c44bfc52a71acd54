package handler

import (
	"net/http"
	"strconv"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// maxImportFileSize is the largest CSV accepted for import (10MB)
const maxImportFileSize = 10 << 20

// ProductImportHandler handles bulk product import from CSV
type ProductImportHandler struct {
	BaseHandler
	importService *catalogapp.ProductImportService
}

// NewProductImportHandler creates a new ProductImportHandler
func NewProductImportHandler(importService *catalogapp.ProductImportService) *ProductImportHandler {
	return &ProductImportHandler{importService: importService}
}

// Import godoc
// @ID           importProducts
// @Summary      Import products from CSV
// @Description  Creates or updates products from a CSV file with columns name, sku, unit_price, stock, category, description, status.
// @Description  The whole file is validated first; if any row fails, nothing is written and the row errors are returned.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Param        conflict_mode formData string false "What to do with an existing SKU" Enums(skip, update, fail) default(skip)
// @Param        dry_run formData bool false "Validate only"
// @Success      200 {object} APIResponse[catalogapp.ProductImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/import [post]
func (h *ProductImportHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}
	switch header.Header.Get("Content-Type") {
	case "", "text/csv", "text/plain", "application/octet-stream", "application/vnd.ms-excel":
	default:
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	req := catalogapp.ProductImportRequest{
		ConflictMode: catalogapp.ConflictMode(c.PostForm("conflict_mode")),
	}
	if raw := c.PostForm("dry_run"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "dry_run must be true or false")
			return
		}
		req.DryRun = dryRun
	}

	result, err := h.importService.Import(c.Request.Context(), file, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if len(result.Errors) > 0 {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeValidation, "CSV file contains invalid rows", getRequestID(c))
		resp.Data = result
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	h.Success(c, result)
}
