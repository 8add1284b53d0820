package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// ErrInvalidDateFilter indicates a createdAt filter value that could not be
// parsed as a date.
var ErrInvalidDateFilter = errors.New("invalid date filter")

// CreateTaskInput carries the allow-listed fields for task creation.
type CreateTaskInput struct {
	Name        string
	Description string
	Status      string
}

// TaskListFilter carries the allow-listed filter fields for task listing.
// All values arrive as strings from the request boundary; parsing and
// interpretation happen here.
type TaskListFilter struct {
	Name       string
	Status     string
	AssigneeID string
	CreatedAt  string
}

// TaskService provides task lifecycle operations: creation, querying,
// status transitions and soft deletion. Assignment is handled separately by
// the AssignmentService.
type TaskService interface {
	// Create validates the input and stores a new task. The status
	// defaults to pending when omitted.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// List returns non-deleted tasks matching the filter with their
	// assignee references resolved. The createdAt filter matches by
	// calendar day in the service's configured reporting location.
	List(ctx context.Context, filter TaskListFilter) ([]*domain.Task, error)

	// Get returns a single task by ID. Soft-deleted tasks are still
	// returned, carrying IsDeleted=true; deletion hides a task from
	// listings, not from direct lookup.
	Get(ctx context.Context, id string) (*domain.Task, error)

	// UpdateStatus moves a task through the status lifecycle and returns
	// the updated task.
	UpdateStatus(ctx context.Context, id, status string) (*domain.Task, error)

	// Delete soft-deletes a task and returns the previous snapshot.
	// Deleting an absent or already-deleted task reports ErrTaskNotFound.
	Delete(ctx context.Context, id string) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	dayLoc *time.Location
	logger *slog.Logger
}

// NewTaskService creates a new TaskService. dayLoc is the location used to
// resolve calendar-day boundaries for createdAt filtering; nil means UTC.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	dayLoc *time.Location,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if users == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "user store cannot be nil"}
	}
	if dayLoc == nil {
		dayLoc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		dayLoc: dayLoc,
		logger: logger.With("component", "task_service"),
	}, nil
}

// Create validates the input and stores a new task.
func (s *taskServiceImpl) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	var status domain.TaskStatus
	if input.Status != "" {
		parsed, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			s.logger.Warn("rejected task creation with unknown status",
				"status", input.Status)
			return nil, err
		}
		status = parsed
	}

	task, err := domain.NewTask(input.Name, input.Description, status)
	if err != nil {
		s.logger.Warn("task validation failed", "error", err)
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to store task", "error", err, "task_id", task.ID)
		return nil, newServiceError("create_task", "failed to store task", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "status", task.Status)
	return task, nil
}

// List returns tasks matching the filter with assignees resolved.
func (s *taskServiceImpl) List(ctx context.Context, filter TaskListFilter) ([]*domain.Task, error) {
	storeFilter := store.TaskFilter{
		Name:   filter.Name,
		Status: filter.Status,
	}

	if filter.AssigneeID != "" {
		assigneeID, err := uuid.Parse(filter.AssigneeID)
		if err != nil {
			return nil, ErrInvalidID
		}
		storeFilter.AssigneeID = &assigneeID
	}

	if filter.CreatedAt != "" {
		from, until, err := s.dayRange(filter.CreatedAt)
		if err != nil {
			return nil, err
		}
		storeFilter.CreatedFrom = from
		storeFilter.CreatedUntil = until
	}

	tasks, err := s.tasks.List(ctx, storeFilter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, newServiceError("list_tasks", "failed to list tasks", err)
	}

	s.resolveAssignees(ctx, tasks)
	return tasks, nil
}

// Get returns a single task by ID, including soft-deleted ones.
func (s *taskServiceImpl) Get(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	task, err := s.tasks.GetByIDAny(ctx, taskID)
	if err != nil {
		return nil, newServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateStatus moves a task through the status lifecycle.
// The store write is conditional on the status observed here, so a
// concurrent transition surfaces as store.ErrConflict instead of being
// silently overwritten.
func (s *taskServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*domain.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	target, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, newServiceError("update_status", "failed to retrieve task", err)
	}

	current := task.Status
	if err := task.TransitionTo(target); err != nil {
		s.logger.Warn("rejected status transition",
			"task_id", taskID,
			"from", current,
			"to", target,
			"error", err)
		return nil, err
	}

	// TransitionTo stamped task.UpdatedAt; persist that same timestamp so
	// the returned task and the stored row agree.
	if err := s.tasks.SetStatus(ctx, taskID, current, target, task.UpdatedAt); err != nil {
		s.logger.Error("failed to persist status transition",
			"error", err,
			"task_id", taskID,
			"from", current,
			"to", target)
		return nil, newServiceError("update_status", "failed to persist status", err)
	}

	s.logger.Info("task status updated", "task_id", taskID, "from", current, "to", target)
	return task, nil
}

// Delete soft-deletes a task and returns the previous snapshot.
func (s *taskServiceImpl) Delete(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, newServiceError("delete_task", "failed to retrieve task", err)
	}

	if err := s.tasks.MarkDeleted(ctx, taskID); err != nil {
		return nil, newServiceError("delete_task", "failed to soft-delete task", err)
	}

	s.logger.Info("task soft-deleted", "task_id", taskID)
	return task, nil
}

// dayRange converts a submitted date string into the half-open
// [day start, next day start) range in the configured reporting location.
// Day equality deliberately ignores the stored time-of-day: a task created
// at 23:00 and one created at 01:00 the next day fall on different days
// even though they are two hours apart.
func (s *taskServiceImpl) dayRange(raw string) (time.Time, time.Time, error) {
	var parsed time.Time
	var err error

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		parsed, err = time.ParseInLocation(layout, raw, s.dayLoc)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFilter
	}

	local := parsed.In(s.dayLoc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.dayLoc)
	return from, from.AddDate(0, 0, 1), nil
}

// resolveAssignees attaches the full user record to each task that carries
// an assignee reference. Resolution failures are logged and leave the
// reference unresolved rather than failing the listing.
func (s *taskServiceImpl) resolveAssignees(ctx context.Context, tasks []*domain.Task) {
	cache := make(map[uuid.UUID]*domain.User)

	for _, task := range tasks {
		if task.AssigneeID == nil {
			continue
		}

		user, ok := cache[*task.AssigneeID]
		if !ok {
			var err error
			user, err = s.users.GetByID(ctx, *task.AssigneeID)
			if err != nil {
				s.logger.Warn("failed to resolve assignee",
					"error", err,
					"task_id", task.ID,
					"assignee_id", *task.AssigneeID)
				continue
			}
			cache[*task.AssigneeID] = user
		}
		task.Assignee = user
	}
}
