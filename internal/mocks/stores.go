// Package mocks provides in-memory fakes of the store interfaces for
// service and handler tests. The fakes honor the same contracts as the
// postgres implementations: conditional updates, soft-delete visibility,
// duplicate detection and ordering.
package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// PassthroughTxRunner runs the function directly with a nil transaction.
// The fakes ignore the transaction handle, so this is enough to exercise
// transactional code paths in tests.
type PassthroughTxRunner struct{}

// RunInTransaction implements store.TxRunner.
func (PassthroughTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

var _ store.TxRunner = PassthroughTxRunner{}

// FakeTaskStore is an in-memory store.TaskStore.
type FakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewFakeTaskStore creates an empty FakeTaskStore.
func NewFakeTaskStore() *FakeTaskStore {
	return &FakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*FakeTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *FakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

// Create implements store.TaskStore.Create.
func (s *FakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *FakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// GetByIDAny implements store.TaskStore.GetByIDAny.
func (s *FakeTaskStore) GetByIDAny(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// GetMany implements store.TaskStore.GetMany.
func (s *FakeTaskStore) GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			tasks = append(tasks, cloneTask(task))
		}
	}
	return tasks, nil
}

// List implements store.TaskStore.List.
func (s *FakeTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []*domain.Task{}
	for _, task := range s.tasks {
		if task.IsDeleted {
			continue
		}
		if filter.Name != "" && task.Name != filter.Name {
			continue
		}
		if filter.Status != "" && string(task.Status) != filter.Status {
			continue
		}
		if filter.AssigneeID != nil &&
			(task.AssigneeID == nil || *task.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if !filter.CreatedFrom.IsZero() && task.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedUntil.IsZero() && !task.CreatedAt.Before(filter.CreatedUntil) {
			continue
		}
		tasks = append(tasks, cloneTask(task))
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// SetStatus implements store.TaskStore.SetStatus.
func (s *FakeTaskStore) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.TaskStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted {
		return store.ErrTaskNotFound
	}
	if task.Status != from {
		return store.ErrConflict
	}
	task.Status = to
	task.UpdatedAt = updatedAt
	return nil
}

// SetAssignee implements store.TaskStore.SetAssignee.
func (s *FakeTaskStore) SetAssignee(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted {
		return store.ErrTaskNotFound
	}
	if assigneeID == nil {
		task.AssigneeID = nil
	} else {
		id := *assigneeID
		task.AssigneeID = &id
	}
	task.UpdatedAt = updatedAt
	return nil
}

// MarkDeleted implements store.TaskStore.MarkDeleted.
func (s *FakeTaskStore) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted {
		return store.ErrTaskNotFound
	}
	task.IsDeleted = true
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// FakeUserStore is an in-memory store.UserStore.
type FakeUserStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*domain.User
	taskIDs map[uuid.UUID][]uuid.UUID

	// TaskIDsErr, when set, is returned by TaskIDs.
	TaskIDsErr error
}

// NewFakeUserStore creates an empty FakeUserStore.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{
		users:   make(map[uuid.UUID]*domain.User),
		taskIDs: make(map[uuid.UUID][]uuid.UUID),
	}
}

var _ store.UserStore = (*FakeUserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *FakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// Create implements store.UserStore.Create.
func (s *FakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Name == user.Name && existing.Role == user.Role {
			return &store.UserExistsError{ExistingID: existing.ID}
		}
	}

	s.users[user.ID] = cloneUser(user)
	s.taskIDs[user.ID] = []uuid.UUID{}
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *FakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// List implements store.UserStore.List.
func (s *FakeUserStore) List(ctx context.Context, name string) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []*domain.User{}
	for _, user := range s.users {
		if name != "" && user.Name != name {
			continue
		}
		users = append(users, cloneUser(user))
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// TaskIDs implements store.UserStore.TaskIDs.
func (s *FakeUserStore) TaskIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if s.TaskIDsErr != nil {
		return nil, s.TaskIDsErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, store.ErrUserNotFound
	}

	ids := s.taskIDs[userID]
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out, nil
}

// AddTask implements store.UserStore.AddTask.
func (s *FakeUserStore) AddTask(ctx context.Context, userID, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return store.ErrNotFound
	}
	for _, existing := range s.taskIDs[userID] {
		if existing == taskID {
			return store.ErrDuplicate
		}
	}
	s.taskIDs[userID] = append(s.taskIDs[userID], taskID)
	return nil
}

// RemoveTask implements store.UserStore.RemoveTask.
func (s *FakeUserStore) RemoveTask(ctx context.Context, userID, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.taskIDs[userID]
	kept := ids[:0]
	for _, existing := range ids {
		if existing != taskID {
			kept = append(kept, existing)
		}
	}
	s.taskIDs[userID] = kept
	return nil
}

// SeedTaskRef injects a task reference into a user's collection without
// touching the task side. Used to simulate drift between the two halves of
// the assignment relationship.
func (s *FakeUserStore) SeedTaskRef(userID, taskID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskIDs[userID] = append(s.taskIDs[userID], taskID)
}

func cloneTask(task *domain.Task) *domain.Task {
	out := *task
	if task.AssigneeID != nil {
		id := *task.AssigneeID
		out.AssigneeID = &id
	}
	out.Assignee = nil
	return &out
}

func cloneUser(user *domain.User) *domain.User {
	out := *user
	out.Tasks = []*domain.Task{}
	return &out
}
