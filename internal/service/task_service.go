package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/telemetry"
	"github.com/phrazzld/tasks-api/internal/store"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask validates and persists a new task.
	CreateTask(ctx context.Context, title, description string) (*domain.Task, error)

	// ListTasks returns every task, newest first.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask retrieves a single task.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTask applies a partial update. An empty title in the update is
	// ignored, while a present description always replaces the old one.
	UpdateTask(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task together with all of its comments.
	DeleteTask(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db       *sql.DB
	tasks    store.TaskStore
	comments store.CommentStore
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
// A nil tracer disables tracing; a nil logger falls back to slog.Default().
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	comments store.CommentStore,
	tracer trace.Tracer,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "db cannot be nil"}
	}
	if tasks == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "tasks cannot be nil"}
	}
	if comments == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "comments cannot be nil"}
	}
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(telemetry.InstrumentationName)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:       db,
		tasks:    tasks,
		comments: comments,
		tracer:   tracer,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, title, description string) (_ *domain.Task, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "TaskService.CreateTask")
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(title, description)
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	if err = s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to save task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	span.SetAttributes(telemetry.AttrTaskID.Int64(task.ID))
	log.Info("task created", slog.Int64("task_id", task.ID))
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) (_ []*domain.Task, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "TaskService.ListTasks")
	defer func() { telemetry.EndSpan(span, err) }()

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (_ *domain.Task, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "TaskService.GetTask",
		telemetry.AttrTaskID.Int64(id))
	defer func() { telemetry.EndSpan(span, err) }()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The read and write run in one transaction so a concurrent delete cannot
// slip in between them.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	update domain.TaskUpdate,
) (_ *domain.Task, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "TaskService.UpdateTask",
		telemetry.AttrTaskID.Int64(id))
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("task_id", id))

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to retrieve task", err)
		}

		if err := task.Apply(update); err != nil {
			return err
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return NewTaskServiceError("update_task", "failed to save task", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			log.Error("failed to update task", slog.String("error", err.Error()))
		}
		return nil, NewTaskServiceError("update_task", "transaction failed", err)
	}

	log.Info("task updated")
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
// Comments are removed before the task inside a single transaction, so
// either both go or neither does.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "TaskService.DeleteTask",
		telemetry.AttrTaskID.Int64(id))
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("task_id", id))

	var removed int64
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		n, err := s.comments.WithTx(tx).DeleteByTask(ctx, id)
		if err != nil {
			return NewTaskServiceError("delete_task", "failed to delete comments", err)
		}
		removed = n

		if err := s.tasks.WithTx(tx).Delete(ctx, id); err != nil {
			return NewTaskServiceError("delete_task", "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			log.Error("failed to delete task", slog.String("error", err.Error()))
		}
		return NewTaskServiceError("delete_task", "transaction failed", err)
	}

	log.Info("task deleted", slog.Int64("comments_deleted", removed))
	return nil
}
