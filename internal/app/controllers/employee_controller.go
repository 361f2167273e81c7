package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/personnel/internal/app/services"
	"github.com/yigit/personnel/internal/app/views"
	"github.com/yigit/personnel/internal/middleware"
	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/logger"
)

// EmployeeController serves the HTML pages
type EmployeeController struct {
	employeeService   *services.EmployeeService
	allowedExtensions []string
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(employeeService *services.EmployeeService, allowedExtensions []string) *EmployeeController {
	return &EmployeeController{
		employeeService:   employeeService,
		allowedExtensions: allowedExtensions,
	}
}

func redirectHome(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/")
}

// Home lists every employee
func (c *EmployeeController) Home(ctx *gin.Context) {
	employees, err := c.employeeService.ListEmployees(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, views.HomePage, views.NewHomeData(employees))
}

// NewForm shows the add form
func (c *EmployeeController) NewForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, views.AddEmployeePage, views.NewFormData(nil, c.allowedExtensions))
}

// Create handles the add form submission
func (c *EmployeeController) Create(ctx *gin.Context) {
	input, err := bindEmployeeInput(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	fileHeader, err := resumeFile(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	if _, err := c.employeeService.CreateEmployee(ctx, input, fileHeader); err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	redirectHome(ctx)
}

// EditForm shows the edit form prefilled with the current record
func (c *EmployeeController) EditForm(ctx *gin.Context) {
	id, err := parseEmployeeID(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	employee, err := c.employeeService.GetEmployee(ctx, id)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, views.EditEmployeePage, views.NewFormData(employee, c.allowedExtensions))
}

// Update handles the edit form submission
func (c *EmployeeController) Update(ctx *gin.Context) {
	id, err := parseEmployeeID(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	input, err := bindEmployeeInput(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	fileHeader, err := resumeFile(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	if _, err := c.employeeService.UpdateEmployee(ctx, id, input, fileHeader); err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	redirectHome(ctx)
}

// Delete removes the record and its document. Deleting a record that
// does not exist still lands on the listing; a malformed id is a 404.
func (c *EmployeeController) Delete(ctx *gin.Context) {
	id, err := parseEmployeeID(ctx)
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	if err := c.employeeService.DeleteEmployee(ctx, id); err != nil {
		if !errors.Is(err, apperrors.ErrEmployeeNotFound) {
			middleware.HandlePageError(ctx, err)
			return
		}
		logger.Debug().Int64("employee_id", id).Msg("Delete of unknown employee ignored")
	}

	redirectHome(ctx)
}

// DownloadResume sends a stored document as an attachment
func (c *EmployeeController) DownloadResume(ctx *gin.Context) {
	download, err := c.employeeService.OpenResume(ctx, ctx.Param("filename"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}

	serveResume(ctx, download)
}
