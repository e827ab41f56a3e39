package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Telemetry goes first so the trace ID matches the request span.
	r.Use(apiMiddleware.Telemetry(app.telemetry.Tracer, app.metrics))
	r.Use(apiMiddleware.Trace(app.logger))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	commentHandler := api.NewCommentHandler(app.commentService, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.logger)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Post("/", commentHandler.CreateComment)
		r.Get("/{task_id}", commentHandler.ListComments)
		r.Put("/{id}", commentHandler.UpdateComment)
		r.Delete("/{id}", commentHandler.DeleteComment)
	})

	r.Get("/health", healthHandler.Health)

	return r
}
