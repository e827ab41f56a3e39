package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Generic client-facing messages
const (
	msgInternalError   = "An unexpected error occurred"
	msgInvalidBody     = "invalid request body"
	msgInvalidEntity   = "invalid entity data"
	msgTaskNotFound    = "task not found"
	msgCommentNotFound = "comment not found"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Validation errors are written for clients and are
// returned as-is.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgInternalError
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return msgTaskNotFound

	case errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, store.ErrCommentNotFound):
		return msgCommentNotFound

	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidEntity

	default:
		return msgInternalError
	}
}

// HandleAPIError writes the error response for err. The status and client
// message come from MapErrorToStatusCode and GetSafeErrorMessage; context, if
// not empty, is only added to the logged error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, context string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	logged := err
	if context != "" {
		logged = fmt.Errorf("%s: %w", context, err)
	}

	shared.RespondWithErrorAndLog(w, r, status, message, logged)
}
