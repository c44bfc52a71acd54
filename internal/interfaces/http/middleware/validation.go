package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report JSON (or form) field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

func fieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	if name == "" {
		name = fld.Name
	}
	return name
}

// FormatValidationErrors converts a binding error into a validation response.
// Validator errors produce one detail per field, decoding errors a single one.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	var details []dto.ValidationDetail
	message := "Request validation failed"

	switch {
	case errors.As(err, &fieldErrs):
		for _, e := range fieldErrs {
			details = append(details, dto.ValidationDetail{
				Field:   jsonPath(e.Namespace()),
				Message: validationMessage(e),
			})
		}
	case errors.As(err, &typeErr):
		details = append(details, dto.ValidationDetail{
			Field:   typeErr.Field,
			Message: "Must be of type " + typeErr.Type.String(),
		})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		message = "Malformed JSON body"
	case errors.Is(err, io.EOF):
		message = "Request body is required"
	default:
		message = err.Error()
	}

	return dto.NewValidationErrorResponse(message, requestID, details)
}

// jsonPath drops the struct name from a validator namespace:
// "CreatePackageRequest.products[0].quantity" becomes "products[0].quantity"
func jsonPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// fieldMessages maps validator tags to messages; %s is the tag parameter
var fieldMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lte":      "Must be less than or equal to %s",
	"min":      "Must be at least %s",
	"max":      "Must be at most %s",
}

func validationMessage(e validator.FieldError) string {
	msg, ok := fieldMessages[e.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, e.Param())
	}
	if (e.Tag() == "min" || e.Tag() == "max") && e.Kind() == reflect.String {
		msg += " characters"
	}
	return msg
}
