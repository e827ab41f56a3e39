package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/telemetry"
	"github.com/phrazzld/tasks-api/internal/store"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// CommentService provides comment-related operations.
type CommentService interface {
	// CreateComment attaches a new comment to an existing task.
	// An unset author defaults to "anonymous".
	CreateComment(
		ctx context.Context,
		taskID int64,
		body string,
		author domain.Optional[string],
	) (*domain.Comment, error)

	// ListComments returns the comments of a task, oldest first.
	// It returns ErrTaskNotFound rather than an empty list for an unknown task.
	ListComments(ctx context.Context, taskID int64) ([]*domain.Comment, error)

	// UpdateComment replaces every field present in the update, empty values included.
	UpdateComment(ctx context.Context, id int64, update domain.CommentUpdate) (*domain.Comment, error)

	// DeleteComment removes a single comment.
	DeleteComment(ctx context.Context, id int64) error
}

// commentServiceImpl implements the CommentService interface
type commentServiceImpl struct {
	db       *sql.DB
	tasks    store.TaskStore
	comments store.CommentStore
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
// It returns an error if any of the required dependencies are nil.
func NewCommentService(
	db *sql.DB,
	tasks store.TaskStore,
	comments store.CommentStore,
	tracer trace.Tracer,
	logger *slog.Logger,
) (CommentService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "comment", Operation: "create_service", Message: "db cannot be nil"}
	}
	if tasks == nil {
		return nil, &ServiceError{Service: "comment", Operation: "create_service", Message: "tasks cannot be nil"}
	}
	if comments == nil {
		return nil, &ServiceError{Service: "comment", Operation: "create_service", Message: "comments cannot be nil"}
	}
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(telemetry.InstrumentationName)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &commentServiceImpl{
		db:       db,
		tasks:    tasks,
		comments: comments,
		tracer:   tracer,
		logger:   logger.With(slog.String("component", "comment_service")),
		now:      time.Now,
	}, nil
}

// CreateComment implements CommentService.CreateComment
// The task lookup and the insert share a transaction; the foreign key on
// comments.task_id backs up the check if the task vanishes in between.
func (s *commentServiceImpl) CreateComment(
	ctx context.Context,
	taskID int64,
	body string,
	author domain.Optional[string],
) (_ *domain.Comment, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "CommentService.CreateComment",
		telemetry.AttrTaskID.Int64(taskID))
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("task_id", taskID))

	comment, err := domain.NewComment(taskID, body, author)
	if err != nil {
		log.Debug("rejected invalid comment", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.tasks.WithTx(tx).GetByID(ctx, taskID); err != nil {
			return NewCommentServiceError("create_comment", "failed to retrieve task", err)
		}

		if err := s.comments.WithTx(tx).Create(ctx, comment); err != nil {
			return NewCommentServiceError("create_comment", "failed to save comment", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			log.Error("failed to create comment", slog.String("error", err.Error()))
		}
		return nil, NewCommentServiceError("create_comment", "transaction failed", err)
	}

	span.SetAttributes(telemetry.AttrCommentID.Int64(comment.ID))
	log.Info("comment created", slog.Int64("comment_id", comment.ID))
	return comment, nil
}

// ListComments implements CommentService.ListComments
func (s *commentServiceImpl) ListComments(ctx context.Context, taskID int64) (_ []*domain.Comment, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "CommentService.ListComments",
		telemetry.AttrTaskID.Int64(taskID))
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err = s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, NewCommentServiceError("list_comments", "failed to retrieve task", err)
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, NewCommentServiceError("list_comments", "failed to list comments", err)
	}
	return comments, nil
}

// UpdateComment implements CommentService.UpdateComment
func (s *commentServiceImpl) UpdateComment(
	ctx context.Context,
	id int64,
	update domain.CommentUpdate,
) (_ *domain.Comment, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "CommentService.UpdateComment",
		telemetry.AttrCommentID.Int64(id))
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("comment_id", id))

	var updated *domain.Comment
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txComments := s.comments.WithTx(tx)

		comment, err := txComments.GetByID(ctx, id)
		if err != nil {
			return NewCommentServiceError("update_comment", "failed to retrieve comment", err)
		}

		if update.IsEmpty() {
			updated = comment
			return nil
		}

		if err := comment.Apply(update, s.now()); err != nil {
			return err
		}

		if err := txComments.Update(ctx, comment); err != nil {
			return NewCommentServiceError("update_comment", "failed to save comment", err)
		}

		updated = comment
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCommentNotFound) {
			log.Error("failed to update comment", slog.String("error", err.Error()))
		}
		return nil, NewCommentServiceError("update_comment", "transaction failed", err)
	}

	log.Info("comment updated")
	return updated, nil
}

// DeleteComment implements CommentService.DeleteComment
func (s *commentServiceImpl) DeleteComment(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "CommentService.DeleteComment",
		telemetry.AttrCommentID.Int64(id))
	defer func() { telemetry.EndSpan(span, err) }()

	if err = s.comments.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrCommentNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete comment",
				slog.String("error", err.Error()),
				slog.Int64("comment_id", id))
		}
		return NewCommentServiceError("delete_comment", "failed to delete comment", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("comment deleted", slog.Int64("comment_id", id))
	return nil
}
