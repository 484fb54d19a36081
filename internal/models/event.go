package models

import "time"

// Event represents an audited action in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "employee.create", "auth.login.fail"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Actor     string    `json:"actor,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
