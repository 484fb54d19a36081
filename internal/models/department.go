package models

import "time"

// Department groups employees.
type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// DepartmentUpdate carries the fields of a partial update. Nil fields are left unchanged.
type DepartmentUpdate struct {
	Name *string `json:"name"`
}
