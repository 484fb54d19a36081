package services

import (
	"errors"

	"github.com/isdelr/hrdesk-be/internal/auth"
)

// Authentication errors. All are terminal and user-correctable.
var (
	ErrDuplicateUsername  = errors.New("username already registered")    // 400
	ErrInvalidCredentials = errors.New("incorrect username or password") // 401
	ErrUnauthenticated    = auth.ErrUnauthenticated                      // 401
)

// Record errors.
var (
	ErrNotFound           = errors.New("record not found")               // 404
	ErrDepartmentNotFound = errors.New("department does not exist")      // 400
	ErrDepartmentInUse    = errors.New("department still has employees") // 409
)
