package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tasktrove/taskboard-api/internal/api"
	apimiddleware "github.com/tasktrove/taskboard-api/internal/api/middleware"
	"github.com/tasktrove/taskboard-api/internal/mocks"
	"github.com/tasktrove/taskboard-api/internal/service"
)

// testEnv wires the handlers against in-memory fakes behind a real router so
// tests exercise routing, decoding and error mapping end to end.
type testEnv struct {
	router *chi.Mux
	tasks  *mocks.FakeTaskStore
	users  *mocks.FakeUserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tasks := mocks.NewFakeTaskStore()
	users := mocks.NewFakeUserStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	taskSvc, err := service.NewTaskService(tasks, users, time.UTC, logger)
	require.NoError(t, err)
	userSvc, err := service.NewUserService(users, tasks, logger)
	require.NoError(t, err)
	assignSvc, err := service.NewAssignmentService(mocks.PassthroughTxRunner{}, tasks, users, logger)
	require.NoError(t, err)

	taskHandler := api.NewTaskHandler(taskSvc, assignSvc)
	userHandler := api.NewUserHandler(userSvc)

	r := chi.NewRouter()
	r.Use(apimiddleware.TraceMiddleware)
	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)
			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.SetAssignee)
			r.Put("/{id}/status", taskHandler.UpdateStatus)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.CreateUser)
			r.Get("/", userHandler.ListUsers)
			r.Get("/{id}", userHandler.GetUser)
			r.Get("/{id}/tasks", userHandler.GetUserTasks)
		})
	})

	return &testEnv{router: r, tasks: tasks, users: users}
}

// do performs a request against the test router. A non-nil body is encoded
// as JSON.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes the recorded JSON response into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// mustStatus fails the test with the response body when the status differs.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
