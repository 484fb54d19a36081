package services

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportData(t *testing.T, f *fixture) {
	t.Helper()
	ctx := asUser("alice")

	eng, err := f.departments.CreateDepartment(ctx, "Engineering")
	require.NoError(t, err)
	ops, err := f.departments.CreateDepartment(ctx, "Ops & <Infra>")
	require.NoError(t, err)

	for _, e := range []struct {
		name string
		dept int64
	}{{"Ann", eng.ID}, {"Bo, Jr.", ops.ID}, {"Cy", eng.ID}} {
		_, err := f.employees.CreateEmployee(ctx, e.name, e.dept)
		require.NoError(t, err)
	}
}

func TestReportService_EmployeeDepartments(t *testing.T) {
	f := newFixture(t)
	seedReportData(t, f)

	rows, err := f.reports.EmployeeDepartments(asUser("alice"), models.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.EmployeeDepartment{EmployeeID: 2, EmployeeName: "Bo, Jr.", DepartmentName: "Ops & <Infra>"}, rows[1])

	paged, err := f.reports.EmployeeDepartments(asUser("alice"), models.Page{Skip: 2, Limit: 5})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Cy", paged[0].EmployeeName)
}

func TestReportService_WriteCSV(t *testing.T) {
	f := newFixture(t)
	seedReportData(t, f)

	path, err := f.reports.WriteCSV(asUser("alice"), models.Page{})
	require.NoError(t, err)
	assert.Equal(t, f.reportsDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), CSVReportPrefix))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"employee_id", "employee_name", "department_name"}, records[0])
	assert.Equal(t, []string{"2", "Bo, Jr.", "Ops & <Infra>"}, records[2])
}

func TestReportService_WriteHTML(t *testing.T) {
	f := newFixture(t)
	seedReportData(t, f)

	path, page, err := f.reports.WriteHTML(asUser("alice"), models.Page{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), HTMLReportPrefix))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, page, onDisk)

	html := string(page)
	assert.Contains(t, html, "<td>Ann</td>")
	assert.Contains(t, html, "Ops &amp; &lt;Infra&gt;")
	assert.Contains(t, html, "by alice")
}

func TestReportService_EmptyHTML(t *testing.T) {
	f := newFixture(t)

	_, page, err := f.reports.WriteHTML(asUser("alice"), models.Page{})
	require.NoError(t, err)
	assert.Contains(t, string(page), "No employees")
}
