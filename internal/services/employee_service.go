package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/hrdesk-be/internal/database"
	"github.com/isdelr/hrdesk-be/internal/models"
)

// EmployeeServiceProvider defines the interface for employee services.
type EmployeeServiceProvider interface {
	GetEmployees(ctx context.Context, page models.Page) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (models.Employee, error)
	CreateEmployee(ctx context.Context, name string, departmentID int64) (models.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, update models.EmployeeUpdate) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) (models.Employee, error)
}

// EmployeeService provides business logic for employee management.
type EmployeeService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(db *sql.DB, events EventServiceProvider) *EmployeeService {
	return &EmployeeService{db: db, events: events}
}

const employeeColumns = "id, name, department_id, created_at"

// scanEmployee is a helper to scan an employee from a row or rows object.
func scanEmployee(scanner interface{ Scan(...any) error }) (models.Employee, error) {
	var e models.Employee
	err := scanner.Scan(&e.ID, &e.Name, &e.DepartmentID, &e.CreatedAt)
	return e, err
}

// GetEmployees returns one page of employees ordered by id.
func (s *EmployeeService) GetEmployees(ctx context.Context, page models.Page) ([]models.Employee, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY id LIMIT ? OFFSET ?",
		page.Limit, page.Skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetEmployeeByID retrieves a single employee by their ID.
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, id int64) (models.Employee, error) {
	e, err := scanEmployee(s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Employee{}, ErrNotFound
		}
		return models.Employee{}, err
	}
	return e, nil
}

// CreateEmployee adds a new employee to an existing department.
func (s *EmployeeService) CreateEmployee(ctx context.Context, name string, departmentID int64) (models.Employee, error) {
	e := models.Employee{Name: name, DepartmentID: departmentID, CreatedAt: time.Now().UTC()}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO employees(name, department_id, created_at) VALUES(?, ?, ?) RETURNING id",
		e.Name, e.DepartmentID, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.Employee{}, ErrDepartmentNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	audit(ctx, s.events, "employee.create", fmt.Sprintf("Added employee %d (%s)", e.ID, e.Name))
	return e, nil
}

// UpdateEmployee applies the non-nil fields of update.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, update models.EmployeeUpdate) (models.Employee, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE employees SET name = COALESCE(?, name), department_id = COALESCE(?, department_id) WHERE id = ?",
		nullString(update.Name), nullInt64(update.DepartmentID), id,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.Employee{}, ErrDepartmentNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Employee{}, ErrNotFound
	}

	audit(ctx, s.events, "employee.update", fmt.Sprintf("Updated employee %d", id))
	return s.GetEmployeeByID(ctx, id)
}

// DeleteEmployee removes an employee and returns them as they were.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) (models.Employee, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Employee{}, err
	}
	defer tx.Rollback()

	e, err := scanEmployee(tx.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Employee{}, ErrNotFound
		}
		return models.Employee{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id); err != nil {
		return models.Employee{}, fmt.Errorf("failed to delete employee: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Employee{}, err
	}

	audit(ctx, s.events, "employee.delete", fmt.Sprintf("Deleted employee %d (%s)", e.ID, e.Name))
	return e, nil
}
