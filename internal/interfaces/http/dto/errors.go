package dto

import (
	"net/http"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
)

// Codes returned in ErrorInfo.Code
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"

	ErrCodeUploadNotFound      = "ERR_UPLOAD_NOT_FOUND"
	ErrCodeStorageUnavailable  = "ERR_STORAGE_UNAVAILABLE"
	ErrCodePrintingUnavailable = "ERR_PRINTING_UNAVAILABLE"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

var wireStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,

	ErrCodeUploadNotFound:      http.StatusUnprocessableEntity,
	ErrCodeStorageUnavailable:  http.StatusServiceUnavailable,
	ErrCodePrintingUnavailable: http.StatusServiceUnavailable,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// domainCodes translates shared.DomainError codes raised by the services.
var domainCodes = map[string]string{
	shared.CodeNotFound:      ErrCodeNotFound,
	shared.CodeAlreadyExists: ErrCodeAlreadyExists,
	shared.CodeInvalidInput:  ErrCodeInvalidInput,
	shared.CodeValidation:    ErrCodeValidation,
	shared.CodeUnauthorized:  ErrCodeUnauthorized,
	shared.CodeForbidden:     ErrCodeForbidden,
	shared.CodeInvalidState:  ErrCodeInvalidState,

	"INVALID_CREDENTIALS":  ErrCodeInvalidCredentials,
	"UPLOAD_NOT_FOUND":     ErrCodeUploadNotFound,
	"UPLOAD_URL_FAILED":    ErrCodeStorageUnavailable,
	"STORAGE_CHECK_FAILED": ErrCodeStorageUnavailable,
	"PRINTING_UNAVAILABLE": ErrCodePrintingUnavailable,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// ResolveErrorCode returns the response code and HTTP status for either a
// domain code or a response code. Codes it does not know keep their text and
// are answered with 500.
func ResolveErrorCode(code string) (string, int) {
	if wire, ok := domainCodes[code]; ok {
		code = wire
	}
	if status, ok := wireStatus[code]; ok {
		return code, status
	}
	return code, http.StatusInternalServerError
}
