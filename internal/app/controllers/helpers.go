package controllers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/personnel/internal/app/models/dto"
	"github.com/yigit/personnel/internal/app/services"
	"github.com/yigit/personnel/internal/middleware"
	"github.com/yigit/personnel/internal/pkg/apperrors"
)

const resumeField = "resume"

// parseEmployeeID reads the :id path parameter. Anything that is not a
// positive integer cannot name an employee and is reported as not found.
func parseEmployeeID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrEmployeeNotFound
	}
	return id, nil
}

// bindEmployeeInput binds the text fields of an add or edit form
func bindEmployeeInput(ctx *gin.Context) (services.EmployeeInput, error) {
	var form dto.EmployeeForm
	if err := ctx.ShouldBind(&form); err != nil {
		return services.EmployeeInput{}, middleware.BindingError(err)
	}
	return services.EmployeeInput{
		Name:       form.Name,
		Department: form.Department,
		Position:   form.Position,
	}, nil
}

// resumeFile returns the uploaded resume, or nil when the request has none
func resumeFile(ctx *gin.Context) (*multipart.FileHeader, error) {
	fileHeader, err := ctx.FormFile(resumeField)
	switch {
	case err == nil:
		return fileHeader, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	default:
		return nil, middleware.BindingError(err)
	}
}

// attachmentDisposition builds a Content-Disposition header that forces a
// download under filename. Non-ASCII names are encoded per RFC 2231.
func attachmentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// serveResume streams a stored document as an attachment
func serveResume(ctx *gin.Context, download *services.ResumeDownload) {
	defer download.Reader.Close()

	ctx.DataFromReader(http.StatusOK, -1, download.ContentType, download.Reader, map[string]string{
		"Content-Disposition":    attachmentDisposition(download.Filename),
		"X-Content-Type-Options": "nosniff",
	})
}
