package api

import (
	"errors"
	"net/http"

	"github.com/tasktrove/taskboard-api/internal/api/shared"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/fields"
	"github.com/tasktrove/taskboard-api/internal/service"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Malformed input: unknown fields, bad identifiers, unparseable values
	case errors.Is(err, fields.ErrInvalidField),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidDateFilter),
		errors.Is(err, domain.ErrInvalidTaskStatus):
		return http.StatusBadRequest

	// Entity validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUserExists),
		errors.Is(err, service.ErrDuplicateAssignment),
		errors.Is(err, domain.ErrIllegalStatusTransition),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// The duplicate-user error names the conflicting identifier so clients
	// can locate the existing record.
	var exists *store.UserExistsError
	if errors.As(err, &exists) {
		return exists.Error()
	}

	switch {
	case errors.Is(err, fields.ErrInvalidField):
		return err.Error()

	case errors.Is(err, service.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, service.ErrInvalidDateFilter):
		return "Invalid date filter"

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Unknown task status"

	case errors.Is(err, domain.ErrIllegalStatusTransition):
		return "Illegal status transition"

	case errors.Is(err, domain.ErrValidation):
		return err.Error()

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return "No task found"

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return "No user found"

	case errors.Is(err, service.ErrDuplicateAssignment):
		return "Duplicated task assignment"

	case errors.Is(err, store.ErrConflict):
		return "Concurrent modification, please retry"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError maps err to a status code and sanitized message and
// writes the error response. Handlers use this for every service-layer error.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
