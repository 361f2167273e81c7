// Package views holds the server-rendered HTML pages.
package views

import (
	"embed"
	"html/template"
	"strings"

	"github.com/yigit/personnel/internal/app/models"
	"github.com/yigit/personnel/internal/app/models/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	HomePage         = "home.html"
	AddEmployeePage  = "add_employee.html"
	EditEmployeePage = "edit_employee.html"
)

// Templates parses every embedded page
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// EmployeeRow is one employee as shown on the pages
type EmployeeRow struct {
	ID             int64
	Name           string
	Department     string
	Position       string
	ResumeFilename string
	ResumeURL      string
}

// NewEmployeeRow flattens an employee for rendering
func NewEmployeeRow(e *models.Employee) EmployeeRow {
	row := EmployeeRow{
		ID:         e.ID,
		Name:       e.Name,
		Department: e.Department,
		Position:   e.Position,
	}
	if e.HasResume() {
		row.ResumeURL = dto.ResumeURL(*e.ResumeKey)
		row.ResumeFilename = *e.ResumeKey
		if e.ResumeFilename != nil && *e.ResumeFilename != "" {
			row.ResumeFilename = *e.ResumeFilename
		}
	}
	return row
}

// HomeData is rendered by home.html
type HomeData struct {
	Employees []EmployeeRow
}

// NewHomeData builds the listing page data
func NewHomeData(employees []*models.Employee) HomeData {
	rows := make([]EmployeeRow, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, NewEmployeeRow(e))
	}
	return HomeData{Employees: rows}
}

// FormData is rendered by the add and edit pages
type FormData struct {
	Employee *EmployeeRow
	// Accept is the value of the file input's accept attribute
	Accept string
}

// NewFormData builds the form page data; employee may be nil for the add page
func NewFormData(employee *models.Employee, allowedExtensions []string) FormData {
	exts := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		exts = append(exts, "."+strings.TrimPrefix(ext, "."))
	}

	data := FormData{Accept: strings.Join(exts, ",")}
	if employee != nil {
		row := NewEmployeeRow(employee)
		data.Employee = &row
	}
	return data
}
