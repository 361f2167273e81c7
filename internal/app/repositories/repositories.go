package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/personnel/internal/app/models"
)

// EmployeeRepository is the storage accessor for employee records.
// Every method issues a single statement against the employees table.
type EmployeeRepository interface {
	GetAll(ctx context.Context) ([]*models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	GetByResumeKey(ctx context.Context, key string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	EmployeeRepository EmployeeRepository
}

// NewRepositories initializes the Postgres backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EmployeeRepository: NewPostgresEmployeeRepository(db),
	}
}

// NewMemoryRepositories initializes process-local repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		EmployeeRepository: NewMemoryEmployeeRepository(),
	}
}
