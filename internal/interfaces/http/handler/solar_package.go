package handler

import (
	"context"
	"net/http"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// SolarPackageHandler handles solar package endpoints and the recommendation
type SolarPackageHandler struct {
	BaseHandler
	packageService *catalogapp.PackageService
}

// NewSolarPackageHandler creates a new SolarPackageHandler
func NewSolarPackageHandler(packageService *catalogapp.PackageService) *SolarPackageHandler {
	return &SolarPackageHandler{packageService: packageService}
}

// List godoc
// @ID           listSolarPackages
// @Summary      List solar packages
// @Description  List packages ordered by the lower end of their bill band
// @Tags         solar-packages
// @Produce      json
// @Param        status query string false "Package status" Enums(active, inactive)
// @Success      200 {object} APIResponse[[]catalogapp.PackageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /solar-packages [get]
func (h *SolarPackageHandler) List(c *gin.Context) {
	var filter catalogapp.PackageListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	packages, err := h.packageService.List(c.Request.Context(), filter)
	h.reply(c, http.StatusOK, packages, err)
}

// GetByID godoc
// @ID           getSolarPackage
// @Summary      Get solar package by ID
// @Description  Retrieve a package with its line items joined to product name, price and image
// @Tags         solar-packages
// @Produce      json
// @Param        id path string true "Package ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.PackageDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /solar-packages/{id} [get]
func (h *SolarPackageHandler) GetByID(c *gin.Context) {
	if id, ok := h.parseID(c, "package"); ok {
		pkg, err := h.packageService.GetByID(c.Request.Context(), id)
		h.reply(c, http.StatusOK, pkg, err)
	}
}

// Create godoc
// @ID           createSolarPackage
// @Summary      Create a solar package
// @Description  Create a package and, when products are given, its line items in the same transaction
// @Tags         solar-packages
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreatePackageRequest true "Package creation request"
// @Success      201 {object} APIResponse[catalogapp.PackageDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /solar-packages [post]
func (h *SolarPackageHandler) Create(c *gin.Context) {
	req, ok := bindJSON[catalogapp.CreatePackageRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	h.write(c, http.StatusCreated, "create", func(ctx context.Context) (*catalogapp.PackageDetailResponse, error) {
		return h.packageService.Create(ctx, *req)
	}, attribute.Int("line_items", len(req.Products)))
}

// Update godoc
// @ID           updateSolarPackage
// @Summary      Replace a solar package
// @Description  Overwrite every scalar field. A products list, when present, replaces all line items; an empty list clears them.
// @Tags         solar-packages
// @Accept       json
// @Produce      json
// @Param        id path string true "Package ID" format(uuid)
// @Param        request body catalogapp.UpdatePackageRequest true "Package update request"
// @Success      200 {object} APIResponse[catalogapp.PackageDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /solar-packages/{id} [put]
func (h *SolarPackageHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "package")
	if !ok {
		return
	}
	req, ok := bindJSON[catalogapp.UpdatePackageRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	h.write(c, http.StatusOK, "update", func(ctx context.Context) (*catalogapp.PackageDetailResponse, error) {
		return h.packageService.Update(ctx, id, *req)
	}, attribute.String("package_id", id.String()), attribute.Bool("replace_line_items", req.Products != nil))
}

// SetLineItems godoc
// @ID           setSolarPackageLineItems
// @Summary      Replace a package's product list
// @Description  Replace every line item of the package in one transaction. Scalar fields are untouched; an empty list clears the items.
// @Tags         solar-packages
// @Accept       json
// @Produce      json
// @Param        id path string true "Package ID" format(uuid)
// @Param        request body catalogapp.SetLineItemsRequest true "Product list"
// @Success      200 {object} APIResponse[catalogapp.PackageDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /solar-packages/{id}/line-items [put]
func (h *SolarPackageHandler) SetLineItems(c *gin.Context) {
	id, ok := h.parseID(c, "package")
	if !ok {
		return
	}
	req, ok := bindJSON[catalogapp.SetLineItemsRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	h.write(c, http.StatusOK, "set_line_items", func(ctx context.Context) (*catalogapp.PackageDetailResponse, error) {
		return h.packageService.SetLineItems(ctx, id, *req)
	}, attribute.String("package_id", id.String()), attribute.Int("line_items", len(req.Products)))
}

// write runs a package mutation inside a service span and answers with the stored package.
func (h *SolarPackageHandler) write(
	c *gin.Context,
	status int,
	op string,
	mutate func(context.Context) (*catalogapp.PackageDetailResponse, error),
	attrs ...attribute.KeyValue,
) {
	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "package", op, attrs...)
	defer span.End()

	pkg, err := mutate(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
	}
	h.reply(c, status, pkg, err)
}

// Delete godoc
// @ID           deleteSolarPackage
// @Summary      Delete a solar package
// @Description  Delete a package and all of its line items
// @Tags         solar-packages
// @Produce      json
// @Param        id path string true "Package ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /solar-packages/{id} [delete]
func (h *SolarPackageHandler) Delete(c *gin.Context) {
	if id, ok := h.parseID(c, "package"); ok {
		err := h.packageService.Delete(c.Request.Context(), id)
		h.reply(c, http.StatusOK, MessageData{Message: "Package deleted"}, err)
	}
}

// Recommend godoc
// @ID           recommendSolarPackage
// @Summary      Recommend a package for a monthly bill
// @Description  Returns the active package whose bill band contains the amount and whose band midpoint is closest to it. No covering package is answered with matched=false.
// @Tags         solar-packages
// @Produce      json
// @Param        billAmount path string true "Monthly electricity bill" example(1100)
// @Success      200 {object} APIResponse[catalogapp.RecommendationResult]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /solar-packages/recommend/{billAmount} [get]
func (h *SolarPackageHandler) Recommend(c *gin.Context) {
	bill, ok := h.parseBillAmount(c, c.Param("billAmount"))
	if !ok {
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "recommendation", "recommend",
		attribute.String("bill_amount", bill.String()))
	defer span.End()

	result, err := h.packageService.Recommend(ctx, bill)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleDomainError(c, err)
		return
	}
	span.SetAttributes(attribute.Bool("matched", result.Matched))
	telemetry.SetOK(span)

	h.Success(c, result)
}
