package models

import "time"

// Employee belongs to exactly one department.
type Employee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DepartmentID int64     `json:"departmentId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EmployeeUpdate carries the fields of a partial update. Nil fields are left unchanged.
type EmployeeUpdate struct {
	Name         *string `json:"name"`
	DepartmentID *int64  `json:"departmentId"`
}

// EmployeeDepartment is one row of the employee/department report.
type EmployeeDepartment struct {
	EmployeeID     int64  `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	DepartmentName string `json:"departmentName"`
}
