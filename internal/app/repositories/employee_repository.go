package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/personnel/internal/app/models"
	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/dberrors"
	"github.com/yigit/personnel/internal/pkg/logger"
)

const employeesTable = "employees"

var employeeColumns = []string{
	"id", "name", "department", "position",
	"resume_filename", "resume_key", "resume_content_type",
}

// PostgresEmployeeRepository handles database operations for employees
type PostgresEmployeeRepository struct {
	db *pgxpool.Pool
}

// NewPostgresEmployeeRepository creates a new employee repository
func NewPostgresEmployeeRepository(db *pgxpool.Pool) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func (r *PostgresEmployeeRepository) selectEmployees() squirrel.SelectBuilder {
	return squirrel.Select(employeeColumns...).
		From(employeesTable).
		PlaceholderFormat(squirrel.Dollar)
}

// translatePgError maps PostgreSQL failures to application errors
func translatePgError(err error) error {
	if column, ok := dberrors.NotNullViolationColumn(err); ok {
		return apperrors.NewValidationError(column + " is required")
	}
	if dberrors.IsUndefinedTable(err) {
		return fmt.Errorf("employees table missing, schema not initialized: %w", err)
	}
	return err
}

// scanEmployee scans a row into an Employee
func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Department,
		&e.Position,
		&e.ResumeFilename,
		&e.ResumeKey,
		&e.ResumeContentType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetAll retrieves all employees ordered by id
func (r *PostgresEmployeeRepository) GetAll(ctx context.Context) ([]*models.Employee, error) {
	sql, args, err := r.selectEmployees().OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list employees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", translatePgError(err))
	}
	defer rows.Close()

	employees := make([]*models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetByID retrieves an employee by ID
func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	sql, args, err := r.selectEmployees().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get employee query: %w", err)
	}

	e, err := scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving employee %d: %w", id, err)
	}
	return e, nil
}

// GetByResumeKey retrieves the employee owning the stored document
func (r *PostgresEmployeeRepository) GetByResumeKey(ctx context.Context, key string) (*models.Employee, error) {
	sql, args, err := r.selectEmployees().
		Where(squirrel.Eq{"resume_key": key}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get employee by resume query: %w", err)
	}

	e, err := scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving employee by resume key: %w", err)
	}
	return e, nil
}

// Create inserts a new employee and sets its ID
func (r *PostgresEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	sql, args, err := squirrel.Insert(employeesTable).
		Columns("name", "department", "position", "resume_filename", "resume_key", "resume_content_type").
		Values(employee.Name, employee.Department, employee.Position,
			employee.ResumeFilename, employee.ResumeKey, employee.ResumeContentType).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create employee query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&employee.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create employee query")
		return fmt.Errorf("error creating employee: %w", translatePgError(err))
	}

	return nil
}

// Update overwrites every column of an existing employee
func (r *PostgresEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	sql, args, err := squirrel.Update(employeesTable).
		Set("name", employee.Name).
		Set("department", employee.Department).
		Set("position", employee.Position).
		Set("resume_filename", employee.ResumeFilename).
		Set("resume_key", employee.ResumeKey).
		Set("resume_content_type", employee.ResumeContentType).
		Where(squirrel.Eq{"id": employee.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update employee query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating employee %d: %w", employee.ID, translatePgError(err))
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}

	return nil
}

// Delete deletes an employee by ID
func (r *PostgresEmployeeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete(employeesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building delete employee query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting employee %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}

	return nil
}
