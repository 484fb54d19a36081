package services

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/models"
)

// Generated report files share these prefixes so the janitor can find them.
const (
	CSVReportPrefix  = "employee_department_report_"
	HTMLReportPrefix = "employee_report_"
)

//go:embed templates/report.html
var reportTemplates embed.FS

var reportTemplate = template.Must(template.ParseFS(reportTemplates, "templates/report.html"))

// ReportServiceProvider defines the interface for report services.
type ReportServiceProvider interface {
	EmployeeDepartments(ctx context.Context, page models.Page) ([]models.EmployeeDepartment, error)
	WriteCSV(ctx context.Context, page models.Page) (string, error)
	WriteHTML(ctx context.Context, page models.Page) (string, []byte, error)
}

// ReportService joins employees with their departments and renders the result
// as CSV or HTML files under reportsPath.
type ReportService struct {
	db          *sql.DB
	events      EventServiceProvider
	reportsPath string
}

// NewReportService creates a new ReportService.
func NewReportService(db *sql.DB, events EventServiceProvider, reportsPath string) *ReportService {
	return &ReportService{db: db, events: events, reportsPath: reportsPath}
}

// EmployeeDepartments returns one page of employee/department rows ordered by employee id.
func (s *ReportService) EmployeeDepartments(ctx context.Context, page models.Page) ([]models.EmployeeDepartment, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, d.name
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		ORDER BY e.id
		LIMIT ? OFFSET ?`,
		page.Limit, page.Skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.EmployeeDepartment{}
	for rows.Next() {
		var r models.EmployeeDepartment
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeName, &r.DepartmentName); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// WriteCSV writes the report to a new CSV file and returns its path.
func (s *ReportService) WriteCSV(ctx context.Context, page models.Page) (string, error) {
	rows, err := s.EmployeeDepartments(ctx, page)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"employee_id", "employee_name", "department_name"})
	for _, r := range rows {
		w.Write([]string{strconv.FormatInt(r.EmployeeID, 10), r.EmployeeName, r.DepartmentName})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode csv report: %w", err)
	}

	fileID := uuid.New().String()
	path, err := s.writeFile(CSVReportPrefix+fileID+".csv", buf.Bytes())
	if err != nil {
		return "", err
	}

	audit(ctx, s.events, "report.csv", fmt.Sprintf("Created employee/department CSV report %s", fileID))
	return path, nil
}

// WriteHTML renders the report, stores it and returns the file path along with the rendered page.
func (s *ReportService) WriteHTML(ctx context.Context, page models.Page) (string, []byte, error) {
	rows, err := s.EmployeeDepartments(ctx, page)
	if err != nil {
		return "", nil, err
	}

	data := struct {
		Rows        []models.EmployeeDepartment
		GeneratedAt time.Time
		GeneratedBy string
	}{Rows: rows, GeneratedAt: time.Now().UTC()}
	if user, ok := auth.UserFromContext(ctx); ok {
		data.GeneratedBy = user.Username
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", nil, fmt.Errorf("failed to render html report: %w", err)
	}

	fileID := uuid.New().String()
	path, err := s.writeFile(HTMLReportPrefix+fileID+".html", buf.Bytes())
	if err != nil {
		return "", nil, err
	}

	audit(ctx, s.events, "report.html", fmt.Sprintf("Created employee/department HTML report %s", fileID))
	return path, buf.Bytes(), nil
}

func (s *ReportService) writeFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.reportsPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}
	path := filepath.Join(s.reportsPath, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
