package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/yigit/personnel/internal/app/models"
	"github.com/yigit/personnel/internal/app/repositories"
	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/filestorage"
	"github.com/yigit/personnel/internal/pkg/logger"
)

const defaultContentType = "application/octet-stream"

// EmployeeInput carries the text fields of the add and edit forms
type EmployeeInput struct {
	Name       string
	Department string
	Position   string
}

// ResumeDownload is an opened document ready to be streamed to a client.
// The caller must close Reader.
type ResumeDownload struct {
	Reader      io.ReadCloser
	Filename    string
	ContentType string
}

// EmployeeService handles employee-related operations
type EmployeeService struct {
	employeeRepo     repositories.EmployeeRepository
	storage          filestorage.FileStorage
	acceptor         *filestorage.Acceptor
	removeSuperseded bool
}

// NewEmployeeService creates a new employee service instance.
// When removeSuperseded is set, a document replaced on edit is deleted
// from storage; otherwise it is left in place.
func NewEmployeeService(
	employeeRepo repositories.EmployeeRepository,
	storage filestorage.FileStorage,
	acceptor *filestorage.Acceptor,
	removeSuperseded bool,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo:     employeeRepo,
		storage:          storage,
		acceptor:         acceptor,
		removeSuperseded: removeSuperseded,
	}
}

func validateInput(input EmployeeInput) error {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Department) == "" {
		missing = append(missing, "department")
	}
	if strings.TrimSpace(input.Position) == "" {
		missing = append(missing, "position")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// ListEmployees returns every employee ordered by id
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	employees, err := s.employeeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	return employees, nil
}

// GetEmployee retrieves an employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	if id <= 0 {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return s.employeeRepo.GetByID(ctx, id)
}

// CreateEmployee stores the optional document and inserts the record
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput, fileHeader *multipart.FileHeader) (*models.Employee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	info, err := s.acceptor.Accept(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		Name:       input.Name,
		Department: input.Department,
		Position:   input.Position,
	}
	if info != nil {
		employee.SetResume(info.Filename, info.Key, info.ContentType)
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if info != nil {
			s.removeDocument(ctx, info.Key)
		}
		return nil, fmt.Errorf("error creating employee: %w", err)
	}

	logger.Info().Int64("employee_id", employee.ID).Bool("resume", info != nil).Msg("Employee created")
	return employee, nil
}

// UpdateEmployee overwrites the text fields and, when a new allowed
// document is submitted, the resume. Without one the prior resume is kept.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, input EmployeeInput, fileHeader *multipart.FileHeader) (*models.Employee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	info, err := s.acceptor.Accept(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	var supersededKey string
	if info != nil && employee.HasResume() {
		supersededKey = *employee.ResumeKey
	}

	employee.Name = input.Name
	employee.Department = input.Department
	employee.Position = input.Position
	if info != nil {
		employee.SetResume(info.Filename, info.Key, info.ContentType)
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		if info != nil {
			s.removeDocument(ctx, info.Key)
		}
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating employee: %w", err)
	}

	if supersededKey != "" && s.removeSuperseded {
		s.removeDocument(ctx, supersededKey)
	}

	logger.Info().Int64("employee_id", employee.ID).Bool("resume_replaced", info != nil).Msg("Employee updated")
	return employee, nil
}

// DeleteEmployee removes the record and its document. A document that
// is already gone does not prevent the delete.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}

	if employee.HasResume() {
		if err := s.storage.Delete(ctx, *employee.ResumeKey); err != nil {
			return fmt.Errorf("error deleting resume of employee %d: %w", id, err)
		}
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("error deleting employee: %w", err)
	}

	logger.Info().Int64("employee_id", id).Msg("Employee deleted")
	return nil
}

// OpenResume opens a stored document. The download name is the original
// filename of the owning record, or the key when no record references it.
func (s *EmployeeService) OpenResume(ctx context.Context, key string) (*ResumeDownload, error) {
	reader, err := s.storage.Open(ctx, key)
	if err != nil {
		return nil, err
	}

	download := &ResumeDownload{
		Reader:      reader,
		Filename:    key,
		ContentType: defaultContentType,
	}

	employee, err := s.employeeRepo.GetByResumeKey(ctx, key)
	switch {
	case err == nil:
		if employee.ResumeFilename != nil && *employee.ResumeFilename != "" {
			download.Filename = *employee.ResumeFilename
		}
		if employee.ResumeContentType != nil && *employee.ResumeContentType != "" {
			download.ContentType = *employee.ResumeContentType
		}
	case errors.Is(err, apperrors.ErrEmployeeNotFound):
	default:
		_ = reader.Close()
		return nil, fmt.Errorf("error looking up resume owner: %w", err)
	}

	return download, nil
}

// removeDocument deletes a stored document, logging instead of failing
func (s *EmployeeService) removeDocument(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to remove stored document")
	}
}
