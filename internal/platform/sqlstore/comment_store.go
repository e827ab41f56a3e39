package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SQLCommentStore implements store.CommentStore on top of database/sql.
type SQLCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLCommentStore creates a CommentStore backed by db.
// If logger is nil, a default logger will be used.
func NewSQLCommentStore(db store.DBTX, logger *slog.Logger) *SQLCommentStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Ensure SQLCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*SQLCommentStore)(nil)

const commentColumns = `id, task_id, body, author, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.TaskID, &c.Body, &c.Author, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// Create implements store.CommentStore.Create
// A foreign key violation means the task does not exist.
func (s *SQLCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("task_id", comment.TaskID))
		return err
	}

	query := `
		INSERT INTO comments (task_id, body, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		comment.TaskID,
		comment.Body,
		comment.Author,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during comment creation",
				slog.Int64("task_id", comment.TaskID))
			return store.ErrTaskNotFound
		}
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.Int64("task_id", comment.TaskID))
		return store.NewStoreError("comment", "create", "failed to insert comment", MapError(err))
	}

	log.Debug("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", comment.TaskID))
	return nil
}

// GetByID implements store.CommentStore.GetByID
func (s *SQLCommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found", slog.Int64("comment_id", id))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment by ID",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return nil, store.NewStoreError("comment", "get", "failed to query comment", err)
	}

	return comment, nil
}

// ListByTask implements store.CommentStore.ListByTask
func (s *SQLCommentStore) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, store.NewStoreError("comment", "list", "failed to query comments", err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("comment", "list", "failed to scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating comment rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("comment", "list", "failed to iterate comments", err)
	}

	return comments, nil
}

// Update implements store.CommentStore.Update
func (s *SQLCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", comment.ID))
		return err
	}

	query := `
		UPDATE comments
		SET body = $1, author = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query,
		comment.Body,
		comment.Author,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", comment.ID))
		return store.NewStoreError("comment", "update", "failed to update comment", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Debug("comment updated", slog.Int64("comment_id", comment.ID))
	return nil
}

// Delete implements store.CommentStore.Delete
func (s *SQLCommentStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return store.NewStoreError("comment", "delete", "failed to delete comment", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Debug("comment deleted", slog.Int64("comment_id", id))
	return nil
}

// DeleteByTask implements store.CommentStore.DeleteByTask
func (s *SQLCommentStore) DeleteByTask(ctx context.Context, taskID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE task_id = $1`, taskID)
	if err != nil {
		log.Error("failed to delete comments of task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return 0, store.NewStoreError("comment", "delete", "failed to delete comments", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("comment", "delete", "failed to count deleted comments", err)
	}

	log.Debug("comments of task deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("count", n))
	return n, nil
}

// WithTx implements store.CommentStore.WithTx
func (s *SQLCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &SQLCommentStore{
		db:     tx,
		logger: s.logger,
	}
}
