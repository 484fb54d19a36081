package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/isdelr/hrdesk-be/internal/services"
)

// DepartmentHandler handles HTTP requests for departments.
type DepartmentHandler struct {
	service services.DepartmentServiceProvider
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(service services.DepartmentServiceProvider) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// DepartmentPayload is the body of a create request. Form posts use the
// department_name field.
type DepartmentPayload struct {
	Name string `json:"name"`
}

func (p DepartmentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.RuneLength(1, 100)),
	)
}

// DepartmentUpdatePayload is the body of a partial update. Omitted fields keep their value.
type DepartmentUpdatePayload models.DepartmentUpdate

func (p DepartmentUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
	)
}

// GetAll lists departments.
func (h *DepartmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}
	departments, err := h.service.GetDepartments(r.Context(), page)
	if err != nil {
		writeError(w, r, err, "list departments")
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

// Get returns a single department.
func (h *DepartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	department, err := h.service.GetDepartmentByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get department")
		return
	}
	writeJSON(w, http.StatusOK, department)
}

// Create adds a department.
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload DepartmentPayload
	if isJSON(r) {
		if !decodeJSON(w, r, &payload) {
			return
		}
	} else {
		form, ok := parseForm(w, r)
		if !ok {
			return
		}
		payload.Name = form.Get("department_name")
	}
	if err := payload.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}
	department, err := h.service.CreateDepartment(r.Context(), payload.Name)
	if err != nil {
		writeError(w, r, err, "create department")
		return
	}
	writeJSON(w, http.StatusCreated, department)
}

// Update changes the supplied fields of a department.
func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload DepartmentUpdatePayload
	if isJSON(r) {
		if !decodeJSON(w, r, &payload) {
			return
		}
	} else {
		form, ok := parseForm(w, r)
		if !ok {
			return
		}
		payload.Name = formString(form, "department_name")
	}
	if err := payload.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}
	department, err := h.service.UpdateDepartment(r.Context(), id, models.DepartmentUpdate(payload))
	if err != nil {
		writeError(w, r, err, "update department")
		return
	}
	writeJSON(w, http.StatusOK, department)
}

// Delete removes a department and returns it.
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	department, err := h.service.DeleteDepartment(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "delete department")
		return
	}
	writeJSON(w, http.StatusOK, department)
}
