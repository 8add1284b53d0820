// Package service implements the application's business operations over the
// store interfaces: task creation and querying, the status lifecycle, and
// the task/user assignment engine.
package service

import (
	"errors"
	"fmt"

	"github.com/tasktrove/taskboard-api/internal/store"
)

// Common sentinel errors for the service layer.
var (
	// ErrInvalidID indicates a malformed entity identifier.
	ErrInvalidID = errors.New("invalid ID")

	// ErrTaskNotFound indicates that the task does not exist or is soft-deleted.
	ErrTaskNotFound = errors.New("no task found")

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("no user found")

	// ErrDuplicateAssignment indicates that the target user's task
	// collection already references the task being assigned. Given the
	// assignment invariant this should be unreachable; it guards against
	// drift between the two sides of the relationship.
	ErrDuplicateAssignment = errors.New("duplicated task assignment")
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "set_assignee")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps err with operation context. Known sentinel errors
// are mapped to their service-level equivalents and returned directly so
// callers can use errors.Is without digging through wrappers.
func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrDuplicateAssignment):
		return err
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
