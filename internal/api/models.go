package api

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// CreateTaskRequest defines the payload for POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
}

// CreateCommentRequest defines the payload for POST /comments.
type CreateCommentRequest struct {
	TaskID int64  `json:"task_id" validate:"required"`
	Body   string `json:"body"    validate:"required"`

	// Author falls back to the default author when absent or null.
	Author domain.Optional[string] `json:"author"`
}

// UpdateTaskRequest defines the payload for PUT /tasks/{id}.
// Absent fields are left unchanged.
type UpdateTaskRequest = domain.TaskUpdate

// UpdateCommentRequest defines the payload for PUT /comments/{id}.
// Absent fields are left unchanged.
type UpdateCommentRequest = domain.CommentUpdate

// DeletedMessage is the message returned by successful DELETE requests.
const DeletedMessage = "deleted"

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentResponse represents the response data for a comment
type CommentResponse struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt.UTC(),
	}
}

// tasksToResponse never returns nil, so an empty list encodes as [].
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func commentToResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Body:      comment.Body,
		Author:    comment.Author,
		CreatedAt: comment.CreatedAt.UTC(),
		UpdatedAt: comment.UpdatedAt.UTC(),
	}
}

func commentsToResponse(comments []*domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentToResponse(c))
	}
	return out
}
