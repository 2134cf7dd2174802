package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrFormNotFound     = errors.New("form not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrForbidden      = errors.New("forbidden")
	ErrEditNotAllowed = errors.New("form does not allow editing responses")
	ErrNotOwner       = errors.New("response belongs to another user")
	ErrReadOnlyUser   = errors.New("account is read-only for this principal")

	ErrEmailTaken = errors.New("email already registered")
)

// FieldViolation points at a single invalid question answer or form field
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in one validation pass so
// the caller can correct the whole request at once.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validationError(violations []FieldViolation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
