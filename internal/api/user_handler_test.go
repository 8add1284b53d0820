package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tasktrove/taskboard-api/internal/api"
	"github.com/tasktrove/taskboard-api/internal/api/shared"
)

func TestCreateUserEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("creates a user", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/users", map[string]any{
			"name": "Dana",
			"role": "Manager",
		})
		mustStatus(t, rec, http.StatusCreated)

		var got api.UserResponse
		decodeBody(t, rec, &got)
		assert.Equal(t, "Dana", got.Name)
		assert.Equal(t, "Manager", got.Role)
		assert.NotNil(t, got.Tasks)
	})

	t.Run("duplicate name and role conflicts with existing id", func(t *testing.T) {
		first := env.do(t, http.MethodPost, "/api/users", map[string]any{"name": "Kai"})
		mustStatus(t, first, http.StatusCreated)
		var created api.UserResponse
		decodeBody(t, first, &created)

		second := env.do(t, http.MethodPost, "/api/users", map[string]any{"name": "Kai"})
		mustStatus(t, second, http.StatusConflict)

		var got shared.ErrorResponse
		decodeBody(t, second, &got)
		assert.Contains(t, got.Error, created.ID)
	})

	t.Run("unknown role", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/users", map[string]any{
			"name": "Riley",
			"role": "Director",
		})
		mustStatus(t, rec, http.StatusUnprocessableEntity)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/users", map[string]any{
			"name":  "Riley",
			"email": "riley@example.com",
		})
		mustStatus(t, rec, http.StatusBadRequest)
	})
}

func TestListUsersEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, name := range []string{"First", "Second"} {
		rec := env.do(t, http.MethodPost, "/api/users", map[string]any{"name": name})
		mustStatus(t, rec, http.StatusCreated)
	}

	t.Run("name filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users?name=First", nil)
		mustStatus(t, rec, http.StatusOK)

		var got []api.UserResponse
		decodeBody(t, rec, &got)
		assert.Len(t, got, 1)
	})

	t.Run("unknown filter key", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users?role=Manager", nil)
		mustStatus(t, rec, http.StatusBadRequest)
	})
}

func TestGetUserEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", map[string]any{"name": "Dana"})
	mustStatus(t, rec, http.StatusCreated)
	var created api.UserResponse
	decodeBody(t, rec, &created)

	t.Run("get user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/"+created.ID, nil)
		mustStatus(t, rec, http.StatusOK)
	})

	t.Run("get tasks of a fresh user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/"+created.ID+"/tasks", nil)
		mustStatus(t, rec, http.StatusOK)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/"+uuid.NewString()+"/tasks", nil)
		mustStatus(t, rec, http.StatusNotFound)
	})
}
