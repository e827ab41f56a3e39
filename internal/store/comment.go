package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// CommentStore defines the interface for comment data persistence.
type CommentStore interface {
	// Create inserts a new comment and fills in its ID.
	// Returns ErrTaskNotFound if the referenced task does not exist.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)

	// ListByTask returns the comments of a task, oldest first.
	// Returns an empty slice if there are none. It does not check that the
	// task exists.
	ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error)

	// Update saves the body, author and updated_at of an existing comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByTask removes every comment of a task and returns how many were removed.
	DeleteByTask(ctx context.Context, taskID int64) (int64, error)

	// WithTx returns a new CommentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CommentStore
}
