package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)

	// ErrTaskNameEmpty is returned when a task's name is empty.
	ErrTaskNameEmpty = fmt.Errorf("%w: task name cannot be empty", ErrValidation)

	// ErrTaskDescriptionEmpty is returned when a task's description is empty.
	ErrTaskDescriptionEmpty = fmt.Errorf("%w: task description cannot be empty", ErrValidation)
)

// Task represents a unit of work tracked by the service. A task is owned by
// nobody and assigned to at most one user at a time; the assignment engine
// keeps AssigneeID consistent with the assignee's task collection.
// Deletion is logical: deleted tasks keep their row and identifier but are
// excluded from default lookups and listings.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	Assignee    *User      `json:"assignee,omitempty"` // resolved by the service layer
	IsDeleted   bool       `json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task with the given name, description and status.
// An empty status defaults to pending. It generates a new UUID for the task
// ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(name, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	task := &Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      status,
		IsDeleted:   false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Name == "" {
		return ErrTaskNameEmpty
	}

	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// TransitionTo moves the task to the target status, enforcing the lifecycle
// rules, and updates the UpdatedAt timestamp.
// Returns ErrInvalidTaskStatus for unrecognized values and
// ErrIllegalStatusTransition when the change is not permitted.
func (t *Task) TransitionTo(target TaskStatus) error {
	if !target.Valid() {
		return ErrInvalidTaskStatus
	}

	if !t.Status.CanTransitionTo(target) {
		return ErrIllegalStatusTransition
	}

	t.Status = target
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// AssignedTo reports whether the task is currently assigned to the given user.
func (t *Task) AssignedTo(userID uuid.UUID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
