package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/personnel/internal/app/models/dto"
	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/logger"
)

// classifyError maps an error to its HTTP status and error detail
func classifyError(err error) (int, *dto.ErrorDetail) {
	var detail *dto.ErrorDetail
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperrors.ErrEmployeeNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Employee not found")
	case errors.Is(err, apperrors.ErrFileNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "File not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request")
	case errors.Is(err, apperrors.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
		detail = dto.NewErrorDetail(dto.ErrorCodeFileTooLarge, "File too large").
			WithSeverity(dto.ErrorSeverityWarning)
	default:
		return status, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		if customErr.Message != "" {
			detail.Message = customErr.Message
		}
		if customErr.Details != nil {
			detail = detail.WithDetails(customErr.Details)
		}
	}
	return status, detail
}

func logHandledError(c *gin.Context, status int, err error) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("Request failed")
}

// HandleAPIError writes the JSON error envelope for err
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	logHandledError(c, status, err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// HandlePageError writes a plain-text error page for the HTML surface
func HandlePageError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	logHandledError(c, status, err)
	_ = c.Error(err)
	c.Abort()
	c.String(status, "%d %s: %s", status, http.StatusText(status), detail.Message)
}
