package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter(tasks *MockTaskService, comments *MockCommentService) http.Handler {
	th := NewTaskHandler(tasks, quietLogger())
	ch := NewCommentHandler(comments, quietLogger())

	r := chi.NewRouter()
	r.Post("/tasks", th.CreateTask)
	r.Get("/tasks", th.ListTasks)
	r.Get("/tasks/{id}", th.GetTask)
	r.Put("/tasks/{id}", th.UpdateTask)
	r.Delete("/tasks/{id}", th.DeleteTask)
	r.Post("/comments", ch.CreateComment)
	r.Get("/comments/{task_id}", ch.ListComments)
	r.Put("/comments/{id}", ch.UpdateComment)
	r.Delete("/comments/{id}", ch.DeleteComment)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestTaskHandler_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createErr      error
		expectedStatus int
		expectedErrMsg string
	}{
		{name: "success", body: `{"title":"Test Task","description":"d"}`, expectedStatus: http.StatusCreated},
		{name: "missing title", body: `{"description":"d"}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "title is required"},
		{name: "empty title", body: `{"title":""}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "title is required"},
		{name: "empty body", body: "", expectedStatus: http.StatusBadRequest, expectedErrMsg: "title is required"},
		{name: "malformed json", body: `{"title":`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "title is required"},
		{name: "wrong type", body: `{"title":42}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "title is required"},
		{name: "trailing data", body: `{"title":"x"} junk`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "title is required"},
		{
			name:           "service validation error",
			body:           `{"title":"x"}`,
			createErr:      domain.ErrTaskTitleTooLong,
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "title is too long",
		},
		{
			name:           "unexpected error is hidden",
			body:           `{"title":"x"}`,
			createErr:      errors.New("pq: connection refused to postgres://user:secret@db"),
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &MockTaskService{
				CreateTaskFn: func(_ context.Context, title, description string) (*domain.Task, error) {
					if tt.createErr != nil {
						return nil, tt.createErr
					}
					return &domain.Task{ID: 1, Title: title, Description: description, CreatedAt: fixedTime}, nil
				},
			}

			rr := doRequest(t, newTestRouter(tasks, &MockCommentService{}), http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedErrMsg != "" {
				resp := decodeError(t, rr)
				assert.Equal(t, tt.expectedErrMsg, resp.Error)
				assert.NotContains(t, rr.Body.String(), "secret")
				return
			}

			var task TaskResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&task))
			assert.Equal(t, int64(1), task.ID)
			assert.Equal(t, "Test Task", task.Title)
			assert.Equal(t, "d", task.Description)
			assert.True(t, fixedTime.Equal(task.CreatedAt))
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Run("empty list encodes as array", func(t *testing.T) {
		tasks := &MockTaskService{
			ListTasksFn: func(context.Context) ([]*domain.Task, error) { return nil, nil },
		}
		rr := doRequest(t, newTestRouter(tasks, &MockCommentService{}), http.MethodGet, "/tasks", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("order is preserved", func(t *testing.T) {
		tasks := &MockTaskService{
			ListTasksFn: func(context.Context) ([]*domain.Task, error) {
				return []*domain.Task{
					{ID: 2, Title: "newer", CreatedAt: fixedTime.Add(time.Minute)},
					{ID: 1, Title: "older", CreatedAt: fixedTime},
				}, nil
			},
		}
		rr := doRequest(t, newTestRouter(tasks, &MockCommentService{}), http.MethodGet, "/tasks", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var got []TaskResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
	})
}

func TestTaskHandler_GetTask(t *testing.T) {
	tasks := &MockTaskService{
		GetTaskFn: func(_ context.Context, id int64) (*domain.Task, error) {
			if id == 1 {
				return &domain.Task{ID: 1, Title: "t", CreatedAt: fixedTime}, nil
			}
			return nil, service.ErrTaskNotFound
		},
	}
	h := newTestRouter(tasks, &MockCommentService{})

	rr := doRequest(t, h, http.MethodGet, "/tasks/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, h, http.MethodGet, "/tasks/2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "task not found", decodeError(t, rr).Error)

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		rr = doRequest(t, h, http.MethodGet, "/tasks/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
		assert.Equal(t, "id has invalid format", decodeError(t, rr).Error, bad)
	}
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	var gotUpdate domain.TaskUpdate
	tasks := &MockTaskService{
		UpdateTaskFn: func(_ context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
			if id != 1 {
				return nil, service.ErrTaskNotFound
			}
			gotUpdate = update
			task := &domain.Task{ID: 1, Title: "Old", Description: "old", CreatedAt: fixedTime}
			require.NoError(t, task.Apply(update))
			return task, nil
		},
	}
	h := newTestRouter(tasks, &MockCommentService{})

	t.Run("partial update", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPut, "/tasks/1", `{"description":""}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, gotUpdate.Title.Set)
		assert.True(t, gotUpdate.Description.Set)

		var task TaskResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&task))
		assert.Equal(t, "Old", task.Title)
		assert.Equal(t, "", task.Description)
	})

	t.Run("empty body changes nothing", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPut, "/tasks/1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TaskUpdate{}, gotUpdate)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPut, "/tasks/1", `not json`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid request body", decodeError(t, rr).Error)
	})

	t.Run("trailing data", func(t *testing.T) {
		gotUpdate = domain.TaskUpdate{}
		rr := doRequest(t, h, http.MethodPut, "/tasks/1", `{"title":"x"}{"title":"y"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid request body", decodeError(t, rr).Error)
		assert.Equal(t, domain.TaskUpdate{}, gotUpdate)
	})

	t.Run("unknown task", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPut, "/tasks/9", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	tasks := &MockTaskService{
		DeleteTaskFn: func(_ context.Context, id int64) error {
			if id == 1 {
				return nil
			}
			return service.ErrTaskNotFound
		},
	}
	h := newTestRouter(tasks, &MockCommentService{})

	rr := doRequest(t, h, http.MethodDelete, "/tasks/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"deleted"}`, rr.Body.String())

	rr = doRequest(t, h, http.MethodDelete, "/tasks/2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCommentHandler_CreateComment(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createErr      error
		expectedStatus int
		expectedErrMsg string
		expectedAuthor string
	}{
		{name: "default author", body: `{"task_id":1,"body":"First comment"}`, expectedStatus: http.StatusCreated, expectedAuthor: "anonymous"},
		{name: "explicit author", body: `{"task_id":1,"body":"b","author":"tester"}`, expectedStatus: http.StatusCreated, expectedAuthor: "tester"},
		{name: "missing task_id", body: `{"body":"b"}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "task_id and body are required"},
		{name: "missing body", body: `{"task_id":1}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "task_id and body are required"},
		{name: "empty request", body: "", expectedStatus: http.StatusBadRequest, expectedErrMsg: "task_id and body are required"},
		{name: "string task_id", body: `{"task_id":"1","body":"b"}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "task_id and body are required"},
		{name: "unknown task", body: `{"task_id":99,"body":"b"}`, createErr: service.ErrTaskNotFound, expectedStatus: http.StatusNotFound, expectedErrMsg: "task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := &MockCommentService{
				CreateCommentFn: func(_ context.Context, taskID int64, body string, author domain.Optional[string]) (*domain.Comment, error) {
					if tt.createErr != nil {
						return nil, tt.createErr
					}
					return &domain.Comment{
						ID:        5,
						TaskID:    taskID,
						Body:      body,
						Author:    author.OrElse(domain.DefaultCommentAuthor),
						CreatedAt: fixedTime,
						UpdatedAt: fixedTime,
					}, nil
				},
			}

			rr := doRequest(t, newTestRouter(&MockTaskService{}, comments), http.MethodPost, "/comments", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, decodeError(t, rr).Error)
				return
			}

			var c CommentResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&c))
			assert.Equal(t, int64(5), c.ID)
			assert.Equal(t, int64(1), c.TaskID)
			assert.Equal(t, tt.expectedAuthor, c.Author)
		})
	}
}

func TestCommentHandler_ListComments(t *testing.T) {
	comments := &MockCommentService{
		ListCommentsFn: func(_ context.Context, taskID int64) ([]*domain.Comment, error) {
			switch taskID {
			case 1:
				return []*domain.Comment{{ID: 1, TaskID: 1, Body: "a", Author: "x", CreatedAt: fixedTime, UpdatedAt: fixedTime}}, nil
			case 2:
				return []*domain.Comment{}, nil
			default:
				return nil, service.ErrTaskNotFound
			}
		},
	}
	h := newTestRouter(&MockTaskService{}, comments)

	rr := doRequest(t, h, http.MethodGet, "/comments/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got []CommentResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Len(t, got, 1)

	rr = doRequest(t, h, http.MethodGet, "/comments/2", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = doRequest(t, h, http.MethodGet, "/comments/3", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, h, http.MethodGet, "/comments/x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "task_id has invalid format", decodeError(t, rr).Error)
}

func TestCommentHandler_UpdateComment(t *testing.T) {
	var gotUpdate domain.CommentUpdate
	comments := &MockCommentService{
		UpdateCommentFn: func(_ context.Context, id int64, update domain.CommentUpdate) (*domain.Comment, error) {
			if id != 7 {
				return nil, service.ErrCommentNotFound
			}
			gotUpdate = update
			c := &domain.Comment{ID: 7, TaskID: 1, Body: "old", Author: "me", CreatedAt: fixedTime, UpdatedAt: fixedTime}
			require.NoError(t, c.Apply(update, fixedTime.Add(time.Hour)))
			return c, nil
		},
	}
	h := newTestRouter(&MockTaskService{}, comments)

	rr := doRequest(t, h, http.MethodPut, "/comments/7", `{"body":"Updated"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var c CommentResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&c))
	assert.Equal(t, "Updated", c.Body)
	assert.Equal(t, "me", c.Author)
	assert.True(t, c.UpdatedAt.After(c.CreatedAt))

	rr = doRequest(t, h, http.MethodPut, "/comments/7", `{"author":""}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, gotUpdate.Author.Set)
	assert.Equal(t, "", gotUpdate.Author.Value)

	rr = doRequest(t, h, http.MethodPut, "/comments/8", `{"body":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "comment not found", decodeError(t, rr).Error)

	rr = doRequest(t, h, http.MethodPut, "/comments/7", `[`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCommentHandler_DeleteComment(t *testing.T) {
	var deleted []int64
	comments := &MockCommentService{
		DeleteCommentFn: func(_ context.Context, id int64) error {
			if id != 3 {
				return service.ErrCommentNotFound
			}
			deleted = append(deleted, id)
			return nil
		},
	}
	h := newTestRouter(&MockTaskService{}, comments)

	rr := doRequest(t, h, http.MethodDelete, "/comments/3", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"deleted"}`, rr.Body.String())
	assert.Equal(t, []int64{3}, deleted)

	rr = doRequest(t, h, http.MethodDelete, "/comments/4", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "comment not found"))
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
		expectedBody   string
	}{
		{"no database", nil, http.StatusOK, "OK"},
		{"database up", fakePinger{}, http.StatusOK, "OK"},
		{"database down", fakePinger{err: errors.New("down")}, http.StatusServiceUnavailable, "database unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, quietLogger())
			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
		})
	}
}
