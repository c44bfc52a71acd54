package handler

import (
	"context"
	"net/http"
	"strings"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// OfferHandler serves printable package offers
type OfferHandler struct {
	BaseHandler
	offerService *catalogapp.OfferService
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(offerService *catalogapp.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// Download godoc
// @ID           downloadSolarPackageOffer
// @Summary      Download a package offer as PDF
// @Description  Renders an A4 offer sheet for an active package. When bill is given it must lie inside the package's bill band and is printed on the offer.
// @Tags         solar-packages
// @Produce      application/pdf
// @Param        id path string true "Package ID" format(uuid)
// @Param        bill query string false "Monthly electricity bill" example(1100)
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /solar-packages/{id}/offer [get]
func (h *OfferHandler) Download(c *gin.Context) {
	id, ok := h.parseID(c, "package")
	if !ok {
		return
	}

	var bill *decimal.Decimal
	if raw := c.Query("bill"); strings.TrimSpace(raw) != "" {
		amount, ok := h.parseBillAmount(c, raw)
		if !ok {
			return
		}
		bill = &amount
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "offer", "generate",
		attribute.String("package_id", id.String()))
	defer span.End()

	var (
		doc *catalogapp.OfferDocument
		err error
	)
	// Offer rendering gets its own label in CPU profiles
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: "offer_generate",
		telemetry.ProfilingLabelRoute:     c.FullPath(),
	}, func(ctx context.Context) {
		doc, err = h.offerService.Generate(ctx, id, bill)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleDomainError(c, err)
		return
	}
	telemetry.SetOK(span)

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}
