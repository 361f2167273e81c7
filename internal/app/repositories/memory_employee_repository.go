package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/personnel/internal/app/models"
	"github.com/yigit/personnel/internal/pkg/apperrors"
)

// MemoryEmployeeRepository keeps employees in process memory.
// Records are lost on restart, matching the reset-on-startup behavior
// of the Postgres backend.
type MemoryEmployeeRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*models.Employee
}

// NewMemoryEmployeeRepository creates an empty repository
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		nextID: 1,
		rows:   make(map[int64]*models.Employee),
	}
}

// GetAll returns copies of all employees ordered by id
func (r *MemoryEmployeeRepository) GetAll(_ context.Context) ([]*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]*models.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		employees = append(employees, e.Clone())
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

// GetByID returns a copy of the employee with the given id
func (r *MemoryEmployeeRepository) GetByID(_ context.Context, id int64) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

// GetByResumeKey returns the lowest-id employee referencing the storage key
func (r *MemoryEmployeeRepository) GetByResumeKey(_ context.Context, key string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.Employee
	for _, e := range r.rows {
		if e.ResumeKey != nil && *e.ResumeKey == key && (found == nil || e.ID < found.ID) {
			found = e
		}
	}
	if found == nil {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return found.Clone(), nil
}

// Create stores a copy of employee and assigns its ID
func (r *MemoryEmployeeRepository) Create(_ context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Ids are never reused, even after a delete
	employee.ID = r.nextID
	r.nextID++
	r.rows[employee.ID] = employee.Clone()
	return nil
}

// Update replaces the stored employee with the same ID
func (r *MemoryEmployeeRepository) Update(_ context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[employee.ID]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	r.rows[employee.ID] = employee.Clone()
	return nil
}

// Delete removes the employee with the given id
func (r *MemoryEmployeeRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	delete(r.rows, id)
	return nil
}
