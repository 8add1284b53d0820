package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrove/taskboard-api/internal/api/shared"
	"github.com/tasktrove/taskboard-api/internal/fields"
	"github.com/tasktrove/taskboard-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	assignments service.AssignmentService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, assignments service.AssignmentService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		assignments: assignments,
	}
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := shared.DecodeJSON(r, &raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := fields.Filter(raw, fields.TaskCreateFields); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), service.CreateTaskInput{
		Name:        stringField(raw, "name"),
		Description: stringField(raw, "description"),
		Status:      stringField(raw, "status"),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests. Filters arrive as query
// parameters and pass through the same allow-list as request bodies.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	raw := queryFields(r)
	if err := fields.Filter(raw, fields.TaskFilterFields); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	tasks, err := h.taskService.List(r.Context(), service.TaskListFilter{
		Name:       stringField(raw, "name"),
		Status:     stringField(raw, "status"),
		AssigneeID: stringField(raw, "assignees"),
		CreatedAt:  stringField(raw, "createdAt"),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// SetAssignee handles PUT /api/tasks/{id} requests. The body carries the
// target user in the "assignees" field; sending the task's current assignee
// unassigns instead. The response mirrors the mutation: the updated user
// after an assign, the updated task after an unassign.
func (h *TaskHandler) SetAssignee(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := shared.DecodeJSON(r, &raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := fields.Filter(raw, fields.TaskAssignFields); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	userID := stringField(raw, "assignees")
	if userID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing assignees field")
		return
	}

	result, err := h.assignments.SetAssignee(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if result.Assigned {
		shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(result.User))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(result.Task))
}

// UpdateStatus handles PUT /api/tasks/{id}/status requests.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := shared.DecodeJSON(r, &raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := fields.Filter(raw, fields.TaskStatusFields); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), stringField(raw, "status"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests. The response carries
// the task as it was before deletion.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}
