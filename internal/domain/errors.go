// Package domain defines the core business entities and errors.
package domain

import "errors"

// ErrValidation is the root of all entity validation errors. The per-field
// sentinels in task.go and user.go wrap it, so callers can match either the
// specific failure or the whole category with errors.Is.
var ErrValidation = errors.New("validation failed")
