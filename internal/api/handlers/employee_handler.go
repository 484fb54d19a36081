package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/isdelr/hrdesk-be/internal/services"
)

// EmployeeHandler handles HTTP requests for employees.
type EmployeeHandler struct {
	service services.EmployeeServiceProvider
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(service services.EmployeeServiceProvider) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// EmployeePayload is the body of a create request. Form posts use the
// employee_name and department_id fields.
type EmployeePayload struct {
	Name         string `json:"name"`
	DepartmentID int64  `json:"departmentId"`
}

func (p EmployeePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&p.DepartmentID, validation.Required, validation.Min(int64(1))),
	)
}

// EmployeeUpdatePayload is the body of a partial update. Omitted fields keep their value.
type EmployeeUpdatePayload models.EmployeeUpdate

func (p EmployeeUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
		validation.Field(&p.DepartmentID, validation.NilOrNotEmpty, validation.Min(int64(1))),
	)
}

// GetAll lists employees.
func (h *EmployeeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}
	employees, err := h.service.GetEmployees(r.Context(), page)
	if err != nil {
		writeError(w, r, err, "list employees")
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// Get returns a single employee.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	employee, err := h.service.GetEmployeeByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get employee")
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

// Create adds an employee to an existing department.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload EmployeePayload
	if isJSON(r) {
		if !decodeJSON(w, r, &payload) {
			return
		}
	} else {
		form, ok := parseForm(w, r)
		if !ok {
			return
		}
		departmentID, err := formInt64(form, "department_id")
		if err != nil {
			writeValidationError(w, r, validation.Errors{"departmentId": err})
			return
		}
		payload.Name = form.Get("employee_name")
		if departmentID != nil {
			payload.DepartmentID = *departmentID
		}
	}
	if err := payload.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}
	employee, err := h.service.CreateEmployee(r.Context(), payload.Name, payload.DepartmentID)
	if err != nil {
		writeError(w, r, err, "create employee")
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

// Update changes the supplied fields of an employee.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload EmployeeUpdatePayload
	if isJSON(r) {
		if !decodeJSON(w, r, &payload) {
			return
		}
	} else {
		form, ok := parseForm(w, r)
		if !ok {
			return
		}
		departmentID, err := formInt64(form, "department_id")
		if err != nil {
			writeValidationError(w, r, validation.Errors{"departmentId": err})
			return
		}
		payload.Name = formString(form, "employee_name")
		payload.DepartmentID = departmentID
	}
	if err := payload.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}
	employee, err := h.service.UpdateEmployee(r.Context(), id, models.EmployeeUpdate(payload))
	if err != nil {
		writeError(w, r, err, "update employee")
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

// Delete removes an employee and returns it.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	employee, err := h.service.DeleteEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "delete employee")
		return
	}
	writeJSON(w, http.StatusOK, employee)
}
