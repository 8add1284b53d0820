package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/platform/logger"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "id, name, description, status, assignee_id, is_deleted, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, name, description, status, assignee_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Description,
		task.Status,
		uuidPtrToNull(task.AssigneeID),
		task.IsDeleted,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: assignee does not exist", store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID, excluding soft-deleted tasks.
// Returns store.ErrTaskNotFound if the task does not exist or is deleted.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.getByID(ctx, id, false)
}

// GetByIDAny implements store.TaskStore.GetByIDAny
// It retrieves a task by its unique ID regardless of the soft-delete flag.
func (s *PostgresTaskStore) GetByIDAny(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.getByID(ctx, id, true)
}

func (s *PostgresTaskStore) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"
	if !includeDeleted {
		query += " AND is_deleted = FALSE"
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	return task, nil
}

// GetMany implements store.TaskStore.GetMany
// It retrieves the tasks with the given IDs, including soft-deleted ones,
// preserving the requested order. Missing IDs are skipped.
func (s *PostgresTaskStore) GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Task{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE id IN (" +
		strings.Join(placeholders, ", ") + ")"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by IDs",
			slog.String("error", err.Error()),
			slog.Int("count", len(ids)))
		return nil, err
	}
	defer closeRows(rows, log)

	byID := make(map[uuid.UUID]*domain.Task, len(ids))
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		byID[task.ID] = task
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := byID[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// List implements store.TaskStore.List
// It retrieves tasks matching the filter, excluding soft-deleted tasks,
// ordered by creation time ascending.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildTaskListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// SetStatus implements store.TaskStore.SetStatus
// The update is conditional on the task still holding the expected current
// status so a concurrent transition cannot be silently overwritten.
func (s *PostgresTaskStore) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.TaskStatus, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND is_deleted = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, to, updatedAt, id, from)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()),
			slog.String("status", string(to)))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing task from a lost optimistic check.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		log.Warn("task status changed concurrently",
			slog.String("task_id", id.String()),
			slog.String("expected_status", string(from)))
		return store.ErrConflict
	}

	log.Info("task status updated successfully",
		slog.String("task_id", id.String()),
		slog.String("status", string(to)))
	return nil
}

// SetAssignee implements store.TaskStore.SetAssignee
// It sets or clears the task's assignee reference.
func (s *PostgresTaskStore) SetAssignee(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET assignee_id = $1, updated_at = $2
		WHERE id = $3 AND is_deleted = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, uuidPtrToNull(assigneeID), updatedAt, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: assignee does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to update task assignee",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("task not found for assignee update", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	return nil
}

// MarkDeleted implements store.TaskStore.MarkDeleted
// The update is conditional on the task not being deleted yet, so deleting
// an already-deleted task reports not found rather than succeeding twice.
func (s *PostgresTaskStore) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND is_deleted = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to soft-delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("task absent or already deleted", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task soft-deleted", slog.String("task_id", id.String()))
	return nil
}

// buildTaskListQuery assembles the List SELECT for the given filter.
// Split out for unit testing of the filter-to-SQL mapping.
func buildTaskListQuery(filter store.TaskFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE is_deleted = FALSE")

	var args []any
	next := func() string {
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Name != "" {
		args = append(args, filter.Name)
		sb.WriteString(" AND name = " + next())
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		sb.WriteString(" AND status = " + next())
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		sb.WriteString(" AND assignee_id = " + next())
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom)
		sb.WriteString(" AND created_at >= " + next())
	}
	if !filter.CreatedUntil.IsZero() {
		args = append(args, filter.CreatedUntil)
		sb.WriteString(" AND created_at < " + next())
	}

	sb.WriteString(" ORDER BY created_at ASC")
	return sb.String(), args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row into a domain.Task.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string
	var assignee uuid.NullUUID

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&status,
		&assignee,
		&task.IsDeleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if assignee.Valid {
		id := assignee.UUID
		task.AssigneeID = &id
	}
	return &task, nil
}

// uuidPtrToNull converts an optional UUID into its nullable SQL form.
func uuidPtrToNull(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// closeRows closes rows and logs any close error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
