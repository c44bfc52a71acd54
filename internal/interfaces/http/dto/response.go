package dto

import "time"

// DefaultPageSize applies when a list request names no page size.
const DefaultPageSize = 20

// Response is the envelope around every API reply. Exactly one of Data and
// Error is meaningful, picked by Success.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected field.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta describes the page a list reply holds.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta fills in defaults for a missing page or size and derives the page count.
func NewMeta(total int64, page, pageSize int) *Meta {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	size := int64(pageSize)
	return &Meta{
		Total:      total,
		Page:       max(page, 1),
		PageSize:   pageSize,
		TotalPages: int((total + size - 1) / size),
	}
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	return Response{Success: true, Data: data, Meta: NewMeta(total, page, pageSize)}
}

// NewErrorResponseWithRequestID builds an error envelope. Domain codes are
// translated to their wire codes first.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	code, _ = ResolveErrorCode(code)
	return Response{Error: &ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	}}
}

// NewValidationErrorResponse is an ERR_VALIDATION envelope listing the rejected fields.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
