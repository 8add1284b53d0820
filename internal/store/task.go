package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
)

// TaskFilter narrows the result set of TaskStore.List. Zero values mean
// "no constraint". Name, Status and AssigneeID are equality filters;
// CreatedFrom/CreatedUntil form a half-open [from, until) range over the
// creation timestamp, which is how calendar-day filtering reaches the store.
type TaskFilter struct {
	Name         string
	Status       string
	AssigneeID   *uuid.UUID
	CreatedFrom  time.Time
	CreatedUntil time.Time
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, excluding soft-deleted
	// tasks. Returns ErrTaskNotFound if the task does not exist or has
	// been soft-deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByIDAny retrieves a task by its unique ID regardless of its
	// soft-delete flag. Returns ErrTaskNotFound if no row exists at all.
	GetByIDAny(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetMany retrieves the tasks with the given IDs, including
	// soft-deleted ones, preserving the order of the requested IDs.
	// IDs with no matching row are skipped.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error)

	// List retrieves tasks matching the filter, excluding soft-deleted
	// tasks, ordered by creation time ascending.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// SetStatus conditionally moves a task from one status to another,
	// recording updatedAt as the row's update time. Callers pass the
	// timestamp already stamped on the domain task so the persisted row
	// and the returned entity carry the same value.
	// The update only applies while the task still holds the expected
	// current status and is not soft-deleted.
	// Returns ErrTaskNotFound if no row exists, or ErrConflict if the
	// task exists but its status changed concurrently.
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.TaskStatus, updatedAt time.Time) error

	// SetAssignee sets or clears (nil) the task's assignee reference,
	// recording updatedAt as the row's update time.
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	SetAssignee(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID, updatedAt time.Time) error

	// MarkDeleted flips the task's soft-delete flag. The update only
	// applies while the task is not already deleted.
	// Returns ErrTaskNotFound if the task is absent or already deleted.
	MarkDeleted(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
