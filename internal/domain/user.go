package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user within the organization.
type UserRole string

// Possible user role values. The role is optional; an empty role is valid.
const (
	UserRoleEmployee UserRole = "Employee"
	UserRoleManager  UserRole = "Manager"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)

	// ErrUserNameEmpty is returned when a user's name is empty.
	ErrUserNameEmpty = fmt.Errorf("%w: user name cannot be empty", ErrValidation)

	// ErrInvalidUserRole is returned when a user's role is not recognized.
	ErrInvalidUserRole = fmt.Errorf("%w: invalid user role", ErrValidation)
)

// User represents a person tasks can be assigned to. Tasks holds the user's
// currently assigned tasks in assignment order; it is resolved by the
// service layer and mutated only through the assignment engine, which keeps
// it consistent with each task's AssigneeID.
type User struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Role       UserRole  `json:"role,omitempty"`
	Tasks      []*Task   `json:"tasks"`
	IsResigned bool      `json:"is_resigned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Valid reports whether the role is recognized. An empty role is valid
// because the role field is optional.
func (r UserRole) Valid() bool {
	switch r {
	case "", UserRoleEmployee, UserRoleManager:
		return true
	default:
		return false
	}
}

// NewUser creates a new User with the given name and optional role.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps.
// Returns an error if validation fails.
func NewUser(name string, role UserRole) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		Name:       name,
		Role:       role,
		Tasks:      []*Task{},
		IsResigned: false,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Name == "" {
		return ErrUserNameEmpty
	}

	if !u.Role.Valid() {
		return ErrInvalidUserRole
	}

	return nil
}
