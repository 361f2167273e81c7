package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/personnel/internal/app/models/dto"
	"github.com/yigit/personnel/internal/app/services"
	"github.com/yigit/personnel/internal/middleware"
)

// EmployeeAPIController serves the JSON API
type EmployeeAPIController struct {
	employeeService *services.EmployeeService
}

// NewEmployeeAPIController creates a new EmployeeAPIController
func NewEmployeeAPIController(employeeService *services.EmployeeService) *EmployeeAPIController {
	return &EmployeeAPIController{
		employeeService: employeeService,
	}
}

// ListEmployees retrieves all employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EmployeeResponse}
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /employees [get]
func (c *EmployeeAPIController) ListEmployees(ctx *gin.Context) {
	employees, err := c.employeeService.ListEmployees(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeListResponse(employees)))
}

// GetEmployee retrieves an employee by ID
// @Summary Get employee by ID
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeResponse}
// @Failure 404 {object} dto.APIResponse "Employee not found"
// @Router /employees/{id} [get]
func (c *EmployeeAPIController) GetEmployee(ctx *gin.Context) {
	id, err := parseEmployeeID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	employee, err := c.employeeService.GetEmployee(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeResponse(employee)))
}

// CreateEmployee creates an employee from a multipart form
// @Summary Create employee
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param department formData string true "Department"
// @Param position formData string true "Position"
// @Param resume formData file false "Resume (pdf, doc, docx)"
// @Success 201 {object} dto.APIResponse{data=dto.EmployeeResponse}
// @Failure 400 {object} dto.APIResponse "Missing fields"
// @Failure 413 {object} dto.APIResponse "File too large"
// @Router /employees [post]
func (c *EmployeeAPIController) CreateEmployee(ctx *gin.Context) {
	input, err := bindEmployeeInput(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := resumeFile(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	employee, err := c.employeeService.CreateEmployee(ctx, input, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewEmployeeResponse(employee)))
}

// UpdateEmployee replaces an employee's fields and optionally its resume
// @Summary Update employee
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Employee ID"
// @Param name formData string true "Name"
// @Param department formData string true "Department"
// @Param position formData string true "Position"
// @Param resume formData file false "Replacement resume (pdf, doc, docx)"
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeResponse}
// @Failure 400 {object} dto.APIResponse "Missing fields"
// @Failure 404 {object} dto.APIResponse "Employee not found"
// @Failure 413 {object} dto.APIResponse "File too large"
// @Router /employees/{id} [put]
func (c *EmployeeAPIController) UpdateEmployee(ctx *gin.Context) {
	id, err := parseEmployeeID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	input, err := bindEmployeeInput(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := resumeFile(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	employee, err := c.employeeService.UpdateEmployee(ctx, id, input, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeResponse(employee)))
}

// DeleteEmployee deletes an employee and its resume
// @Summary Delete employee
// @Tags employees
// @Param id path int true "Employee ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.APIResponse "Employee not found"
// @Router /employees/{id} [delete]
func (c *EmployeeAPIController) DeleteEmployee(ctx *gin.Context) {
	id, err := parseEmployeeID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.employeeService.DeleteEmployee(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /health [get]
func (c *EmployeeAPIController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
}
