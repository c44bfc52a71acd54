// Package handler contains the gin handlers of the catalog API.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/logger"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/dto"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindError answers a request whose body or query failed to bind
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
}

// reply answers status with data, or maps err when the call failed.
func (h *BaseHandler) reply(c *gin.Context, status int, data any, err error) {
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	c.JSON(status, dto.NewSuccessResponse(data))
}

// bindJSON decodes the request body, answering 400 when it does not bind.
func bindJSON[T any](h *BaseHandler, c *gin.Context) (*T, bool) {
	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		h.BindError(c, err)
		return nil, false
	}
	return req, true
}

// HandleDomainError converts domain errors to HTTP responses. Any other
// error is logged with the request logger and answered with a generic 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, statusCode := dto.ResolveErrorCode(domainErr.Code)
		if statusCode >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed", zap.String("code", code), zap.Error(err))
		}
		h.Error(c, statusCode, code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unexpected error", zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c, "An unexpected error occurred")
}

// parseID parses the :id path parameter, answering 400 when it is not a UUID
func (h *BaseHandler) parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+resource+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

const defaultPageSize = dto.DefaultPageSize

// normalizePage defaults a missing page to the first and a missing size to defaultPageSize.
func normalizePage(page, pageSize *int) {
	*page = max(*page, 1)
	if *pageSize <= 0 {
		*pageSize = defaultPageSize
	}
}

// maxBillLength bounds the raw bill text before it is parsed
const maxBillLength = 32

// parseBillAmount parses a bill from a path or query value, answering 400 when
// it is not a number or lies outside the storable range. Sign checks are left
// to the services.
func (h *BaseHandler) parseBillAmount(c *gin.Context, raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxBillLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Bill amount is out of range")
		return decimal.Decimal{}, false
	}
	bill, err := decimal.NewFromString(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Bill amount must be a number")
		return decimal.Decimal{}, false
	}
	if !shared.AmountInRange(bill) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Bill amount is out of range")
		return decimal.Decimal{}, false
	}
	return bill, true
}
