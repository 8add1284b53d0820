package shared_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrove/taskboard-api/internal/api/shared"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	shared.RespondWithJSON(rec, req, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.SetTraceID(req.Context()))

	shared.RespondWithError(rec, req, http.StatusNotFound, "No task found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var got shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "No task found", got.Error)
	assert.NotEmpty(t, got.TraceID)
}

func TestRespondWithErrorAndLog_HidesInternalError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	internal := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	shared.RespondWithErrorAndLog(rec, req, http.StatusInternalServerError,
		"An unexpected error occurred", internal)

	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "An unexpected error occurred")
}
