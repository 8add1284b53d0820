package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/platform/logger"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// userColumns is the column list shared by every user SELECT.
const userColumns = "id, name, role, is_resigned, created_at, updated_at"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend. The user's task
// reference collection lives in the user_tasks table, ordered by the
// position sequence.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It saves a new user to the database, handling domain validation.
// Returns a *store.UserExistsError naming the conflicting user if the
// (name, role) pair is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, name, role, is_resigned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		roleToNull(user.Role),
		user.IsResigned,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			existingID, lookupErr := s.findIDByNameRole(ctx, user.Name, user.Role)
			if lookupErr != nil {
				log.Error("failed to resolve conflicting user after unique violation",
					slog.String("error", lookupErr.Error()),
					slog.String("name", user.Name))
				return store.ErrUserExists
			}
			log.Warn("duplicate user data",
				slog.String("name", user.Name),
				slog.String("role", string(user.Role)),
				slog.String("existing_user_id", existingID.String()))
			return &store.UserExistsError{ExistingID: existingID}
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, err
	}

	return user, nil
}

// List implements store.UserStore.List
// It retrieves users, optionally filtered by exact name, ordered by
// creation time descending.
func (s *PostgresUserStore) List(ctx context.Context, name string) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + userColumns + " FROM users"
	var args []any
	if name != "" {
		query += " WHERE name = $1"
		args = append(args, name)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed users", slog.Int("count", len(users)))
	return users, nil
}

// TaskIDs implements store.UserStore.TaskIDs
// It returns the user's task reference collection in assignment order.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) TaskIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Confirm the user exists so an empty collection and a missing user
	// are distinguishable.
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists)
	if err != nil {
		log.Error("failed to check user existence",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	if !exists {
		return nil, store.ErrUserNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id FROM user_tasks
		WHERE user_id = $1
		ORDER BY position ASC
	`, userID)
	if err != nil {
		log.Error("failed to query user task references",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan task reference", slog.String("error", err.Error()))
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return ids, nil
}

// AddTask implements store.UserStore.AddTask
// Returns store.ErrDuplicate if the reference is already present.
func (s *PostgresUserStore) AddTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_tasks (user_id, task_id)
		VALUES ($1, $2)
	`, userID, taskID)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate task reference",
				slog.String("user_id", userID.String()),
				slog.String("task_id", taskID.String()))
			return store.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return store.ErrNotFound
		}
		log.Error("failed to add task reference",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("task_id", taskID.String()))
		return err
	}

	return nil
}

// RemoveTask implements store.UserStore.RemoveTask
// Removing an absent reference is not an error.
func (s *PostgresUserStore) RemoveTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_tasks
		WHERE user_id = $1 AND task_id = $2
	`, userID, taskID)

	if err != nil {
		log.Error("failed to remove task reference",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("task_id", taskID.String()))
		return err
	}

	return nil
}

// findIDByNameRole resolves the identifier of the user holding the given
// (name, role) pair. Used to report the conflicting user on duplicates.
func (s *PostgresUserStore) findIDByNameRole(ctx context.Context, name string, role domain.UserRole) (uuid.UUID, error) {
	query := `
		SELECT id FROM users
		WHERE name = $1 AND role IS NOT DISTINCT FROM $2
	`

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, query, name, roleToNull(role)).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// scanUser reads one user row into a domain.User. The task collection is
// not resolved here; callers use TaskIDs plus the task store for that.
func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var role sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&role,
		&user.IsResigned,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if role.Valid {
		user.Role = domain.UserRole(role.String)
	}
	user.Tasks = []*domain.Task{}
	return &user, nil
}

// roleToNull converts the optional role into its nullable SQL form.
func roleToNull(role domain.UserRole) sql.NullString {
	if role == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(role), Valid: true}
}
