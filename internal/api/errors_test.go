package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"comment not found", service.ErrCommentNotFound, http.StatusNotFound},
		{"store not found", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound},
		{"validation", domain.ErrTaskTitleRequired, http.StatusBadRequest},
		{"invalid id", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), http.StatusBadRequest},
		{"invalid format", domain.NewValidationError("", "invalid request body", domain.ErrInvalidFormat), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"service error", &service.ServiceError{Service: "task", Operation: "x", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"title required", domain.ErrTaskTitleRequired, "title is required"},
		{"comment fields", domain.ErrCommentFieldsRequired, "task_id and body are required"},
		{"task not found", service.ErrTaskNotFound, "task not found"},
		{"store comment not found", store.ErrCommentNotFound, "comment not found"},
		{"invalid entity", store.ErrInvalidEntity, "invalid entity data"},
		{"internal details hidden", errors.New("dial tcp 10.0.0.1:5432: refused"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}
