// Package fields implements the per-operation field allow-lists applied to
// every write and filter entry point. An operation accepts exactly the keys
// named in its AllowList; anything else is a request error. Blank values are
// stripped before the request reaches a store operation so partial updates
// never write empty values.
package fields

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned when a submitted key is outside the
// operation's allow-list.
var ErrInvalidField = errors.New("invalid field")

// AllowList is the fixed set of field names an operation accepts.
type AllowList []string

// Per-operation allow-lists. Centralizing them here keeps the validation
// rules testable in one place instead of re-declared at each call site.
var (
	TaskCreateFields = AllowList{"name", "status", "description"}
	TaskFilterFields = AllowList{"name", "status", "createdAt", "assignees"}
	TaskStatusFields = AllowList{"status"}
	TaskAssignFields = AllowList{"assignees"}
	UserCreateFields = AllowList{"name", "role"}
	UserFilterFields = AllowList{"name"}
)

// Contains reports whether the allow-list permits the given key.
func (a AllowList) Contains(key string) bool {
	for _, allowed := range a {
		if allowed == key {
			return true
		}
	}
	return false
}

// Filter validates the submitted key set against the allow-list and strips
// blank values from the mapping in place. Returns ErrInvalidField (wrapped
// with the offending key) if any submitted key is outside the allow-list.
// The store is never touched; only the working copy of the input mutates.
func Filter(values map[string]any, allow AllowList) error {
	for key, value := range values {
		if !allow.Contains(key) {
			return fmt.Errorf("%w: %q", ErrInvalidField, key)
		}

		if isBlank(value) {
			delete(values, key)
		}
	}
	return nil
}

// isBlank reports whether a submitted value carries no information and
// should be dropped before it reaches a store operation.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64: // JSON numbers decode as float64
		return v == 0
	default:
		return false
	}
}
