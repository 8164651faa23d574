package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no valid session backs a request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound covers missing boxes, items and locations within a scope.
	ErrNotFound = errors.New("not found")

	// ErrConfirmDeleteRequired is returned when a quantity adjustment would
	// reach zero. The zero is never persisted; the caller must confirm an
	// explicit delete instead.
	ErrConfirmDeleteRequired = errors.New("quantity would reach zero: delete confirmation required")
)

// ValidationError is a user-recoverable input error. Each distinct violation
// gets its own message so the caller can show a precise reason.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// HasDependentsError blocks a delete while other rows still reference the
// target. Count is surfaced to the user.
type HasDependentsError struct {
	Resource  string
	Dependent string
	Count     int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("%s cannot be deleted: %d %s(s) still reference it", e.Resource, e.Count, e.Dependent)
}
