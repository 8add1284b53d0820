package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// CreateUserInput carries the allow-listed fields for user creation.
type CreateUserInput struct {
	Name string
	Role string
}

// UserService provides user operations: creation with duplicate detection,
// listing and task-collection resolution.
type UserService interface {
	// Create validates the input and stores a new user. A user with the
	// same (name, role) pair must not already exist; the returned
	// *store.UserExistsError names the conflicting identifier.
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// List returns users optionally filtered by exact name, newest first,
	// with their task collections resolved.
	List(ctx context.Context, name string) ([]*domain.User, error)

	// Get returns a single user by ID with their task collection resolved.
	Get(ctx context.Context, id string) (*domain.User, error)

	// Tasks returns the resolved task collection of the named user.
	Tasks(ctx context.Context, id string) ([]*domain.Task, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users  store.UserStore
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	tasks store.TaskStore,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "user store cannot be nil"}
	}
	if tasks == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:  users,
		tasks:  tasks,
		logger: logger.With("component", "user_service"),
	}, nil
}

// Create validates the input and stores a new user.
func (s *userServiceImpl) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Name, domain.UserRole(input.Role))
	if err != nil {
		s.logger.Warn("user validation failed", "error", err)
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Duplicate (name, role) pairs surface unchanged so the boundary
		// can report the conflicting identifier.
		if store.IsDuplicateError(err) {
			return nil, err
		}
		s.logger.Error("failed to store user", "error", err, "user_id", user.ID)
		return nil, newServiceError("create_user", "failed to store user", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// List returns users optionally filtered by exact name, newest first.
func (s *userServiceImpl) List(ctx context.Context, name string) ([]*domain.User, error) {
	users, err := s.users.List(ctx, name)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, newServiceError("list_users", "failed to list users", err)
	}

	for _, user := range users {
		s.resolveTasks(ctx, user)
	}
	return users, nil
}

// Get returns a single user by ID with their task collection resolved.
func (s *userServiceImpl) Get(ctx context.Context, id string) (*domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, newServiceError("get_user", "failed to retrieve user", err)
	}

	s.resolveTasks(ctx, user)
	return user, nil
}

// Tasks returns the resolved task collection of the named user.
func (s *userServiceImpl) Tasks(ctx context.Context, id string) ([]*domain.Task, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Tasks, nil
}

// resolveTasks loads the user's task collection. Lookup failures are
// tolerated by logging and leaving the collection empty; a broken
// reference list should not take down a user listing.
func (s *userServiceImpl) resolveTasks(ctx context.Context, user *domain.User) {
	user.Tasks = []*domain.Task{}

	taskIDs, err := s.users.TaskIDs(ctx, user.ID)
	if err != nil {
		s.logger.Warn("failed to read user task collection",
			"error", err,
			"user_id", user.ID)
		return
	}

	tasks, err := s.tasks.GetMany(ctx, taskIDs)
	if err != nil {
		s.logger.Warn("failed to resolve user tasks",
			"error", err,
			"user_id", user.ID)
		return
	}

	user.Tasks = tasks
}
