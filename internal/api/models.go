// Package api implements the HTTP boundary: request decoding with field
// allow-lists, error-to-status mapping, and JSON response shaping.
package api

import (
	"time"

	"github.com/tasktrove/taskboard-api/internal/domain"
)

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Assignee    *UserResponse `json:"assignee,omitempty"`
	IsDeleted   bool          `json:"is_deleted"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// UserResponse represents the response data for a user, including their
// resolved task collection.
type UserResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Role      string         `json:"role,omitempty"`
	Tasks     []TaskResponse `json:"tasks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// taskToResponse converts a domain.Task to a TaskResponse. A resolved
// assignee is embedded without their task collection to keep the payload
// from recursing.
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Name:        task.Name,
		Description: task.Description,
		Status:      string(task.Status),
		IsDeleted:   task.IsDeleted,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Assignee != nil {
		resp.Assignee = &UserResponse{
			ID:        task.Assignee.ID.String(),
			Name:      task.Assignee.Name,
			Role:      string(task.Assignee.Role),
			Tasks:     []TaskResponse{},
			CreatedAt: task.Assignee.CreatedAt,
			UpdatedAt: task.Assignee.UpdatedAt,
		}
	}

	return resp
}

// tasksToResponse converts a slice of tasks, always yielding a non-nil slice
// so empty listings serialize as [] rather than null.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}

// userToResponse converts a domain.User to a UserResponse.
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Role:      string(user.Role),
		Tasks:     tasksToResponse(user.Tasks),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userToResponse(user))
	}
	return out
}
