package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Domain validation errors are returned unchanged so their message reaches the client
// 3. Unexpected errors are wrapped in service-specific error types
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates that the task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCommentNotFound indicates that the comment does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrCommentNotFound = errors.New("comment not found")
)

// ServiceError wraps unexpected errors from a service operation with context.
type ServiceError struct {
	// Service is the service that failed ("task", "comment")
	Service string
	// Operation is the operation that failed (e.g., "create_task", "delete_comment")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError maps known conditions to sentinels and wraps everything else.
// It returns nil for a nil err.
func newServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrCommentNotFound), errors.Is(err, store.ErrCommentNotFound):
		return ErrCommentNotFound
	case errors.Is(err, domain.ErrValidation):
		return err
	}

	// A ServiceError raised inside a transaction is already wrapped.
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewTaskServiceError creates an error for a failed task service operation.
// Known sentinel errors are returned directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	return newServiceError("task", operation, message, err)
}

// NewCommentServiceError creates an error for a failed comment service operation.
// Known sentinel errors are returned directly without wrapping.
func NewCommentServiceError(operation, message string, err error) error {
	return newServiceError("comment", operation, message, err)
}
