package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
)

// UserStore defines the interface for user data persistence, including the
// user's ordered task reference collection. The collection is the user-side
// half of the task/user assignment relationship; only the assignment
// engine writes it.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns a *UserExistsError if a user with the same (name, role)
	// pair already exists.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List retrieves users, optionally filtered by exact name, ordered by
	// creation time descending.
	List(ctx context.Context, name string) ([]*domain.User, error)

	// TaskIDs returns the user's task reference collection in assignment
	// order. Returns ErrUserNotFound if the user does not exist.
	TaskIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// AddTask appends a task reference to the user's collection.
	// Returns ErrDuplicate if the reference is already present.
	AddTask(ctx context.Context, userID, taskID uuid.UUID) error

	// RemoveTask removes a task reference from the user's collection.
	// Removing an absent reference is not an error.
	RemoveTask(ctx context.Context, userID, taskID uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
