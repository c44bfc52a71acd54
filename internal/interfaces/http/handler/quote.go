package handler

import (
	"net/http"

	inquiryapp "github.com/Esyonel/vural-enerji-sub001/internal/application/inquiry"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles quote request intake and follow-up
type QuoteHandler struct {
	BaseHandler
	quoteService *inquiryapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *inquiryapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Submit godoc
// @ID           submitQuoteRequest
// @Summary      Submit a quote request
// @Description  Public endpoint used by the recommendation widget. A package_id, when given, must reference an existing package.
// @Tags         quote-requests
// @Accept       json
// @Produce      json
// @Param        request body inquiryapp.CreateQuoteRequest true "Quote request"
// @Success      201 {object} APIResponse[inquiryapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /quote-requests [post]
func (h *QuoteHandler) Submit(c *gin.Context) {
	req, ok := bindJSON[inquiryapp.CreateQuoteRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	quote, err := h.quoteService.Submit(c.Request.Context(), *req)
	h.reply(c, http.StatusCreated, quote, err)
}

// List godoc
// @ID           listQuoteRequests
// @Summary      List quote requests
// @Tags         quote-requests
// @Produce      json
// @Param        search query string false "Search term (name, email, phone or city)"
// @Param        status query string false "Status" Enums(new, contacted, closed)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]inquiryapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quote-requests [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var filter inquiryapp.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	quotes, total, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getQuoteRequest
// @Summary      Get quote request by ID
// @Tags         quote-requests
// @Produce      json
// @Param        id path string true "Quote request ID" format(uuid)
// @Success      200 {object} APIResponse[inquiryapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quote-requests/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	if id, ok := h.parseID(c, "quote request"); ok {
		quote, err := h.quoteService.GetByID(c.Request.Context(), id)
		h.reply(c, http.StatusOK, quote, err)
	}
}

// UpdateStatus godoc
// @ID           updateQuoteRequestStatus
// @Summary      Change quote request status
// @Description  Allowed transitions: new to contacted, new to closed, contacted to closed
// @Tags         quote-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote request ID" format(uuid)
// @Param        request body inquiryapp.UpdateQuoteStatusRequest true "New status"
// @Success      200 {object} APIResponse[inquiryapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quote-requests/{id}/status [put]
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "quote request")
	if !ok {
		return
	}
	req, ok := bindJSON[inquiryapp.UpdateQuoteStatusRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	quote, err := h.quoteService.UpdateStatus(c.Request.Context(), id, *req)
	h.reply(c, http.StatusOK, quote, err)
}
