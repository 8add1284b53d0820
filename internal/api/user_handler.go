package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrove/taskboard-api/internal/api/shared"
	"github.com/tasktrove/taskboard-api/internal/fields"
	"github.com/tasktrove/taskboard-api/internal/service"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles POST /api/users requests.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := shared.DecodeJSON(r, &raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := fields.Filter(raw, fields.UserCreateFields); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Name: stringField(raw, "name"),
		Role: stringField(raw, "role"),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// ListUsers handles GET /api/users requests.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	raw := queryFields(r)
	if err := fields.Filter(raw, fields.UserFilterFields); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	users, err := h.userService.List(r.Context(), stringField(raw, "name"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, usersToResponse(users))
}

// GetUser handles GET /api/users/{id} requests.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// GetUserTasks handles GET /api/users/{id}/tasks requests.
func (h *UserHandler) GetUserTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.userService.Tasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}
