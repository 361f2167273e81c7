package dto

import (
	"net/url"

	"github.com/yigit/personnel/internal/app/models"
)

// EmployeeForm is bound from the add/edit forms and the multipart API requests.
// The optional document travels in the "resume" file field.
type EmployeeForm struct {
	Name       string `form:"name" binding:"required"`
	Department string `form:"department" binding:"required"`
	Position   string `form:"position" binding:"required"`
}

// EmployeeResponse is the JSON representation of an employee
type EmployeeResponse struct {
	ID             int64   `json:"id" example:"1"`
	Name           string  `json:"name" example:"Ada Lovelace"`
	Department     string  `json:"department" example:"Engineering"`
	Position       string  `json:"position" example:"Analyst"`
	ResumeFilename *string `json:"resumeFilename,omitempty" example:"cv.pdf"`
	ResumeURL      *string `json:"resumeUrl,omitempty" example:"/uploads/0b6f1c1e.pdf"`
}

// NewEmployeeResponse converts a model to its JSON representation
func NewEmployeeResponse(e *models.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		Department:     e.Department,
		Position:       e.Position,
		ResumeFilename: e.ResumeFilename,
	}
	if e.HasResume() {
		u := ResumeURL(*e.ResumeKey)
		resp.ResumeURL = &u
	}
	return resp
}

// NewEmployeeListResponse converts a slice of models
func NewEmployeeListResponse(employees []*models.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, NewEmployeeResponse(e))
	}
	return out
}

// ResumeURL returns the download path of a stored document
func ResumeURL(key string) string {
	return "/uploads/" + url.PathEscape(key)
}
