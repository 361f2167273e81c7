package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/personnel/internal/pkg/apperrors"
)

// BindingError converts a gin binding failure into an application error.
// Validator failures become ErrValidationFailed with one entry per field.
// A body cut off by LimitRequestBody is ErrFileTooLarge; anything else
// (malformed body, bad multipart boundary) is ErrBadRequest.
func BindingError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("%w: request body exceeds %d bytes", apperrors.ErrFileTooLarge, maxBytesErr.Limit)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]interface{}, len(validationErrors))
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			msg := formatValidationError(fe)
			fields[strings.ToLower(fe.Field())] = msg
			messages = append(messages, msg)
		}
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, strings.Join(messages, "; ")).
			WithDetails(fields)
	}

	return apperrors.NewCustomError(apperrors.ErrBadRequest, "invalid form data: "+err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
