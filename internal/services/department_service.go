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

// DepartmentServiceProvider defines the interface for department services.
type DepartmentServiceProvider interface {
	GetDepartments(ctx context.Context, page models.Page) ([]models.Department, error)
	GetDepartmentByID(ctx context.Context, id int64) (models.Department, error)
	CreateDepartment(ctx context.Context, name string) (models.Department, error)
	UpdateDepartment(ctx context.Context, id int64, update models.DepartmentUpdate) (models.Department, error)
	DeleteDepartment(ctx context.Context, id int64) (models.Department, error)
}

// DepartmentService provides business logic for department management.
type DepartmentService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(db *sql.DB, events EventServiceProvider) *DepartmentService {
	return &DepartmentService{db: db, events: events}
}

// GetDepartments returns one page of departments ordered by id.
func (s *DepartmentService) GetDepartments(ctx context.Context, page models.Page) ([]models.Department, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM departments ORDER BY id LIMIT ? OFFSET ?",
		page.Limit, page.Skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// GetDepartmentByID retrieves a single department by its ID.
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, id int64) (models.Department, error) {
	var d models.Department
	err := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM departments WHERE id = ?", id).
		Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Department{}, ErrNotFound
		}
		return models.Department{}, err
	}
	return d, nil
}

// CreateDepartment adds a new department.
func (s *DepartmentService) CreateDepartment(ctx context.Context, name string) (models.Department, error) {
	d := models.Department{Name: name, CreatedAt: time.Now().UTC()}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO departments(name, created_at) VALUES(?, ?) RETURNING id",
		d.Name, d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		return models.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	audit(ctx, s.events, "department.create", fmt.Sprintf("Created department %d (%s)", d.ID, d.Name))
	return d, nil
}

// UpdateDepartment applies the non-nil fields of update.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id int64, update models.DepartmentUpdate) (models.Department, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE departments SET name = COALESCE(?, name) WHERE id = ?",
		nullString(update.Name), id,
	)
	if err != nil {
		return models.Department{}, fmt.Errorf("failed to update department: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Department{}, ErrNotFound
	}

	audit(ctx, s.events, "department.update", fmt.Sprintf("Updated department %d", id))
	return s.GetDepartmentByID(ctx, id)
}

// DeleteDepartment removes a department and returns it as it was. Departments
// that still have employees cannot be deleted.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id int64) (models.Department, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Department{}, err
	}
	defer tx.Rollback()

	var d models.Department
	err = tx.QueryRowContext(ctx, "SELECT id, name, created_at FROM departments WHERE id = ?", id).
		Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Department{}, ErrNotFound
		}
		return models.Department{}, err
	}

	var inUse bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM employees WHERE department_id = ?)", id).Scan(&inUse)
	if err != nil {
		return models.Department{}, fmt.Errorf("failed to check department employees: %w", err)
	}
	if inUse {
		return models.Department{}, ErrDepartmentInUse
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM departments WHERE id = ?", id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.Department{}, ErrDepartmentInUse
		}
		return models.Department{}, fmt.Errorf("failed to delete department: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Department{}, err
	}

	audit(ctx, s.events, "department.delete", fmt.Sprintf("Deleted department %d (%s)", d.ID, d.Name))
	return d, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}
