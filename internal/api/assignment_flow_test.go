package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrove/taskboard-api/internal/api"
)

// TestAssignmentFlow drives the full assign/unassign cycle through the HTTP
// surface: the same PUT either binds a task to a user or, when the task is
// already theirs, releases it again.
func TestAssignmentFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", map[string]any{"name": "Dana", "role": "Employee"})
	mustStatus(t, rec, http.StatusCreated)
	var user api.UserResponse
	decodeBody(t, rec, &user)

	rec = env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"name":        "Tune the indexes",
		"description": "EXPLAIN the slow listing query",
	})
	mustStatus(t, rec, http.StatusCreated)
	var task api.TaskResponse
	decodeBody(t, rec, &task)

	// Assign: the response is the updated user carrying the task.
	rec = env.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"assignees": user.ID})
	mustStatus(t, rec, http.StatusOK)

	var assigned api.UserResponse
	decodeBody(t, rec, &assigned)
	assert.Equal(t, user.ID, assigned.ID)
	require.Len(t, assigned.Tasks, 1)
	assert.Equal(t, task.ID, assigned.Tasks[0].ID)

	// The task now resolves its assignee in listings.
	rec = env.do(t, http.MethodGet, "/api/tasks?assignees="+user.ID, nil)
	mustStatus(t, rec, http.StatusOK)
	var listed []api.TaskResponse
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Assignee)
	assert.Equal(t, user.ID, listed[0].Assignee.ID)

	// Repeating the same PUT unassigns; the response is the released task.
	rec = env.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"assignees": user.ID})
	mustStatus(t, rec, http.StatusOK)

	var released api.TaskResponse
	decodeBody(t, rec, &released)
	assert.Equal(t, task.ID, released.ID)
	assert.Nil(t, released.Assignee)

	// Both sides of the relationship are clear again.
	rec = env.do(t, http.MethodGet, "/api/users/"+user.ID+"/tasks", nil)
	mustStatus(t, rec, http.StatusOK)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Missing body field.
	rec = env.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{})
	mustStatus(t, rec, http.StatusBadRequest)

	// Unknown body field.
	rec = env.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"assignee": user.ID})
	mustStatus(t, rec, http.StatusBadRequest)
}
