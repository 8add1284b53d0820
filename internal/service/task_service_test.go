package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrove/taskboard-api/internal/domain"
	"github.com/tasktrove/taskboard-api/internal/mocks"
	"github.com/tasktrove/taskboard-api/internal/service"
)

type taskFixture struct {
	svc   service.TaskService
	tasks *mocks.FakeTaskStore
	users *mocks.FakeUserStore
}

func newTaskFixture(t *testing.T, loc *time.Location) *taskFixture {
	t.Helper()

	tasks := mocks.NewFakeTaskStore()
	users := mocks.NewFakeUserStore()

	svc, err := service.NewTaskService(tasks, users, loc, discardLogger())
	require.NoError(t, err)

	return &taskFixture{svc: svc, tasks: tasks, users: users}
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t, time.UTC)
	ctx := context.Background()

	t.Run("defaults status to pending", func(t *testing.T) {
		task, err := f.svc.Create(ctx, service.CreateTaskInput{
			Name:        "Write onboarding doc",
			Description: "Cover the local setup steps",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.NotEqual(t, uuid.Nil, task.ID)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Name, stored.Name)
	})

	t.Run("accepts an explicit status", func(t *testing.T) {
		task, err := f.svc.Create(ctx, service.CreateTaskInput{
			Name:        "Review PR queue",
			Description: "Everything older than two days",
			Status:      "working",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusWorking, task.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, err := f.svc.Create(ctx, service.CreateTaskInput{
			Name:        "Bad status",
			Description: "Should not be stored",
			Status:      "paused",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := f.svc.Create(ctx, service.CreateTaskInput{
			Description: "No name given",
		})
		assert.ErrorIs(t, err, domain.ErrTaskNameEmpty)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t, time.UTC)
	ctx := context.Background()

	seed := func(t *testing.T, status domain.TaskStatus) *domain.Task {
		t.Helper()
		task, err := domain.NewTask("Ship the build", "Cut and tag", status)
		require.NoError(t, err)
		require.NoError(t, f.tasks.Create(ctx, task))
		return task
	}

	t.Run("moves pending to working", func(t *testing.T) {
		task := seed(t, domain.TaskStatusPending)

		updated, err := f.svc.UpdateStatus(ctx, task.ID.String(), "working")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusWorking, updated.Status)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusWorking, stored.Status)

		// The stored row carries the same update time as the returned task.
		assert.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
	})

	t.Run("done only moves to archive", func(t *testing.T) {
		task := seed(t, domain.TaskStatusDone)

		_, err := f.svc.UpdateStatus(ctx, task.ID.String(), "working")
		assert.ErrorIs(t, err, domain.ErrIllegalStatusTransition)

		updated, err := f.svc.UpdateStatus(ctx, task.ID.String(), "archive")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusArchive, updated.Status)
	})

	t.Run("rejects an unknown status value", func(t *testing.T) {
		task := seed(t, domain.TaskStatusPending)

		_, err := f.svc.UpdateStatus(ctx, task.ID.String(), "finished")
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})

	t.Run("unknown task reports not found", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, uuid.NewString(), "working")
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t, time.UTC)
	ctx := context.Background()

	task, err := domain.NewTask("Retire old worker", "Drain and remove", "")
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(ctx, task))

	// Delete returns the pre-delete snapshot.
	snapshot, err := f.svc.Delete(ctx, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, task.ID, snapshot.ID)
	assert.False(t, snapshot.IsDeleted)

	// Deletion hides the task from listings, not from direct lookup:
	// Get still returns the record, now flagged deleted.
	got, err := f.svc.Get(ctx, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.True(t, got.IsDeleted)

	listed, err := f.svc.List(ctx, service.TaskListFilter{Name: task.Name})
	require.NoError(t, err)
	assert.Empty(t, listed)

	// A second delete of the same task also reports not found.
	_, err = f.svc.Delete(ctx, task.ID.String())
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = f.svc.Delete(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, service.ErrInvalidID)
}

func TestListTasks_DayFilter(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t, time.UTC)
	ctx := context.Background()

	seedAt := func(t *testing.T, name string, createdAt time.Time) *domain.Task {
		t.Helper()
		task, err := domain.NewTask(name, "day filter fixture", "")
		require.NoError(t, err)
		task.CreatedAt = createdAt
		require.NoError(t, f.tasks.Create(ctx, task))
		return task
	}

	// Two hours apart but on different calendar days.
	late := seedAt(t, "late evening", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC))
	early := seedAt(t, "early morning", time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC))

	tasks, err := f.svc.List(ctx, service.TaskListFilter{CreatedAt: "2026-02-28"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, late.ID, tasks[0].ID)

	tasks, err = f.svc.List(ctx, service.TaskListFilter{CreatedAt: "2026-03-01"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, early.ID, tasks[0].ID)

	// A full timestamp selects the day it falls on.
	tasks, err = f.svc.List(ctx, service.TaskListFilter{CreatedAt: "2026-03-01T15:04:05Z"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, early.ID, tasks[0].ID)

	_, err = f.svc.List(ctx, service.TaskListFilter{CreatedAt: "yesterday"})
	assert.ErrorIs(t, err, service.ErrInvalidDateFilter)
}

func TestListTasks_DayFilterRespectsLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*60*60)
	f := newTaskFixture(t, loc)
	ctx := context.Background()

	// 23:00 UTC on Feb 28 is already 08:00 on Mar 1 in UTC+9.
	task, err := domain.NewTask("evening task", "timezone fixture", "")
	require.NoError(t, err)
	task.CreatedAt = time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)
	require.NoError(t, f.tasks.Create(ctx, task))

	tasks, err := f.svc.List(ctx, service.TaskListFilter{CreatedAt: "2026-03-01"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	tasks, err = f.svc.List(ctx, service.TaskListFilter{CreatedAt: "2026-02-28"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasks_FiltersAndResolution(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t, time.UTC)
	ctx := context.Background()

	user, err := domain.NewUser("Dana", domain.UserRoleManager)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(ctx, user))

	assigned, err := domain.NewTask("Assigned task", "carries an assignee", "")
	require.NoError(t, err)
	assigned.AssigneeID = &user.ID
	require.NoError(t, f.tasks.Create(ctx, assigned))

	unassigned, err := domain.NewTask("Floating task", "nobody owns this", "working")
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(ctx, unassigned))

	t.Run("assignee filter with resolution", func(t *testing.T) {
		tasks, err := f.svc.List(ctx, service.TaskListFilter{AssigneeID: user.ID.String()})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, assigned.ID, tasks[0].ID)
		require.NotNil(t, tasks[0].Assignee)
		assert.Equal(t, user.Name, tasks[0].Assignee.Name)
	})

	t.Run("status filter", func(t *testing.T) {
		tasks, err := f.svc.List(ctx, service.TaskListFilter{Status: "working"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, unassigned.ID, tasks[0].ID)
	})

	t.Run("malformed assignee filter", func(t *testing.T) {
		_, err := f.svc.List(ctx, service.TaskListFilter{AssigneeID: "someone"})
		assert.ErrorIs(t, err, service.ErrInvalidID)
	})

	t.Run("dangling assignee reference is tolerated", func(t *testing.T) {
		orphanID := uuid.New()
		orphan, err := domain.NewTask("Orphaned task", "assignee row is gone", "")
		require.NoError(t, err)
		orphan.AssigneeID = &orphanID
		require.NoError(t, f.tasks.Create(ctx, orphan))

		tasks, err := f.svc.List(ctx, service.TaskListFilter{Name: "Orphaned task"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Nil(t, tasks[0].Assignee)
	})
}
