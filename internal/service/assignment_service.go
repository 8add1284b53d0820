package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// AssignmentResult reports the outcome of a SetAssignee call. Exactly one
// of the two branches applies: an assign returns the updated user with the
// task appended to their collection, an unassign returns the updated task
// with its assignee cleared.
type AssignmentResult struct {
	Assigned bool
	Task     *domain.Task
	User     *domain.User
}

// AssignmentService is the sole writer of the task/user assignment
// relationship. It keeps Task.AssigneeID and the user's task collection
// mutually consistent: both sides are written inside one transaction, and
// mutations are serialized per task and per user identifier.
type AssignmentService interface {
	// SetAssignee assigns the task to the user, or unassigns it if the
	// task is already assigned to that same user.
	SetAssignee(ctx context.Context, taskID, userID string) (*AssignmentResult, error)
}

// assignmentServiceImpl implements the AssignmentService interface
type assignmentServiceImpl struct {
	txRunner store.TxRunner
	tasks    store.TaskStore
	users    store.UserStore
	locks    *keyLock
	logger   *slog.Logger
}

// NewAssignmentService creates a new AssignmentService.
// It returns an error if any of the required dependencies are nil.
func NewAssignmentService(
	txRunner store.TxRunner,
	tasks store.TaskStore,
	users store.UserStore,
	logger *slog.Logger,
) (AssignmentService, error) {
	if txRunner == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "tx runner cannot be nil"}
	}
	if tasks == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if users == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "user store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &assignmentServiceImpl{
		txRunner: txRunner,
		tasks:    tasks,
		users:    users,
		locks:    newKeyLock(),
		logger:   logger.With("component", "assignment_service"),
	}, nil
}

// SetAssignee dispatches to assign or unassign depending on the task's
// current assignee. Guarantees that after a successful call the invariant
// holds for the affected pair: an assigned task's ID appears exactly once
// in its assignee's collection, and an unassigned task appears in nobody's.
func (s *assignmentServiceImpl) SetAssignee(ctx context.Context, taskID, userID string) (*AssignmentResult, error) {
	tID, err := uuid.Parse(taskID)
	if err != nil {
		return nil, ErrInvalidID
	}
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	// Serialize against other assignment calls touching the same task or
	// user. Lock ordering inside lockAll prevents deadlock.
	unlock := s.locks.lockAll(tID.String(), uID.String())
	defer unlock()

	var result *AssignmentResult
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)
		users := s.users.WithTx(tx)

		task, err := tasks.GetByID(ctx, tID)
		if err != nil {
			return newServiceError("set_assignee", "failed to retrieve task", err)
		}

		user, err := users.GetByID(ctx, uID)
		if err != nil {
			return newServiceError("set_assignee", "failed to retrieve user", err)
		}

		if task.AssignedTo(user.ID) {
			result, err = s.unassign(ctx, tasks, users, task, user)
		} else {
			result, err = s.assign(ctx, tasks, users, task, user)
		}
		return err
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// assign binds the task to the user: sets the task's assignee reference and
// appends the task to the user's collection. Before writing it scans the
// collection for an existing reference; finding one means the two sides
// have drifted apart, and the call fails rather than widening the damage.
func (s *assignmentServiceImpl) assign(
	ctx context.Context,
	tasks store.TaskStore,
	users store.UserStore,
	task *domain.Task,
	user *domain.User,
) (*AssignmentResult, error) {
	taskIDs, err := users.TaskIDs(ctx, user.ID)
	if err != nil {
		return nil, newServiceError("assign", "failed to read user task collection", err)
	}

	for _, existing := range taskIDs {
		if existing == task.ID {
			s.logger.Warn("task reference already present on user",
				"task_id", task.ID,
				"user_id", user.ID)
			return nil, ErrDuplicateAssignment
		}
	}

	// Mutate the loaded task and persist its timestamp so the response
	// matches the stored row.
	task.AssigneeID = &user.ID
	task.UpdatedAt = time.Now().UTC()

	if err := tasks.SetAssignee(ctx, task.ID, &user.ID, task.UpdatedAt); err != nil {
		return nil, newServiceError("assign", "failed to set task assignee", err)
	}
	if err := users.AddTask(ctx, user.ID, task.ID); err != nil {
		return nil, newServiceError("assign", "failed to append task reference", err)
	}

	resolved, err := tasks.GetMany(ctx, append(taskIDs, task.ID))
	if err != nil {
		return nil, newServiceError("assign", "failed to resolve user tasks", err)
	}
	user.Tasks = resolved

	s.logger.Info("task assigned",
		"task_id", task.ID,
		"user_id", user.ID,
		"task_count", len(user.Tasks))

	return &AssignmentResult{Assigned: true, Task: task, User: user}, nil
}

// unassign clears the binding: removes the task's assignee reference and
// drops the task from the user's collection.
func (s *assignmentServiceImpl) unassign(
	ctx context.Context,
	tasks store.TaskStore,
	users store.UserStore,
	task *domain.Task,
	user *domain.User,
) (*AssignmentResult, error) {
	task.AssigneeID = nil
	task.Assignee = nil
	task.UpdatedAt = time.Now().UTC()

	if err := tasks.SetAssignee(ctx, task.ID, nil, task.UpdatedAt); err != nil {
		return nil, newServiceError("unassign", "failed to clear task assignee", err)
	}
	if err := users.RemoveTask(ctx, user.ID, task.ID); err != nil {
		return nil, newServiceError("unassign", "failed to remove task reference", err)
	}

	s.logger.Info("task unassigned",
		"task_id", task.ID,
		"user_id", user.ID)

	return &AssignmentResult{Assigned: false, Task: task, User: user}, nil
}
