package api

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn func(ctx context.Context, title, description string) (*domain.Task, error)
	ListTasksFn  func(ctx context.Context) ([]*domain.Task, error)
	GetTaskFn    func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, id int64) error
}

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(ctx context.Context, title, description string) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, title, description)
	}
	return nil, nil
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx)
	}
	return nil, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return nil, nil
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, update)
	}
	return nil, nil
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

// MockCommentService is a mock implementation of service.CommentService for testing
type MockCommentService struct {
	CreateCommentFn func(ctx context.Context, taskID int64, body string, author domain.Optional[string]) (*domain.Comment, error)
	ListCommentsFn  func(ctx context.Context, taskID int64) ([]*domain.Comment, error)
	UpdateCommentFn func(ctx context.Context, id int64, update domain.CommentUpdate) (*domain.Comment, error)
	DeleteCommentFn func(ctx context.Context, id int64) error
}

// CreateComment implements service.CommentService
func (m *MockCommentService) CreateComment(
	ctx context.Context,
	taskID int64,
	body string,
	author domain.Optional[string],
) (*domain.Comment, error) {
	if m.CreateCommentFn != nil {
		return m.CreateCommentFn(ctx, taskID, body, author)
	}
	return nil, nil
}

// ListComments implements service.CommentService
func (m *MockCommentService) ListComments(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	if m.ListCommentsFn != nil {
		return m.ListCommentsFn(ctx, taskID)
	}
	return nil, nil
}

// UpdateComment implements service.CommentService
func (m *MockCommentService) UpdateComment(
	ctx context.Context,
	id int64,
	update domain.CommentUpdate,
) (*domain.Comment, error) {
	if m.UpdateCommentFn != nil {
		return m.UpdateCommentFn(ctx, id, update)
	}
	return nil, nil
}

// DeleteComment implements service.CommentService
func (m *MockCommentService) DeleteComment(ctx context.Context, id int64) error {
	if m.DeleteCommentFn != nil {
		return m.DeleteCommentFn(ctx, id)
	}
	return nil
}
