package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (ErrTaskNotFound, ErrUserNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity or relationship.
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when a conditional update matches no rows
	// because the entity changed underneath the caller. The caller should
	// reload and retry or report the conflict.
	ErrConflict = errors.New("concurrent modification")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrTaskNotFound indicates that the requested task does not exist in
	// the store, or has been soft-deleted.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUserExists indicates that a user with the same (name, role) pair
	// already exists. Returned wrapped in a UserExistsError carrying the
	// conflicting identifier.
	ErrUserExists = fmt.Errorf("%w: user name and role", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// UserExistsError reports a duplicate (name, role) pair and names the
// identifier of the user that already holds it.
type UserExistsError struct {
	ExistingID uuid.UUID
}

// Error implements the error interface for UserExistsError.
func (e *UserExistsError) Error() string {
	return fmt.Sprintf("duplicate user data with user ID %s", e.ExistingID)
}

// Unwrap returns ErrUserExists to support errors.Is checks.
func (e *UserExistsError) Unwrap() error {
	return ErrUserExists
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "task", "user")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
