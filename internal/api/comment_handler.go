package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentService service.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentHandler{
		commentService: commentService,
		logger:         logger.With(slog.String("component", "comment_handler")),
	}
}

// CreateComment handles POST /comments requests
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCommentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid create comment body", slog.String("error", err.Error()))
		HandleAPIError(w, r, domain.ErrCommentFieldsRequired, "")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, domain.ErrCommentFieldsRequired, "")
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), req.TaskID, req.Body, req.Author)
	if err != nil {
		HandleAPIError(w, r, err, "failed to create comment")
		return
	}

	log.Debug("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", comment.TaskID))
	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(comment))
}

// ListComments handles GET /comments/{task_id} requests.
// Comments are returned oldest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := handlePathID(w, r, "task_id", nil)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "failed to list comments")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, commentsToResponse(comments))
}

// UpdateComment handles PUT /comments/{id} requests
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, domain.NewValidationError("", msgInvalidBody, domain.ErrInvalidFormat), "")
		return
	}

	comment, err := h.commentService.UpdateComment(r.Context(), id, req)
	if err != nil {
		HandleAPIError(w, r, err, "failed to update comment")
		return
	}

	log.Debug("comment updated", slog.Int64("comment_id", comment.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, commentToResponse(comment))
}

// DeleteComment handles DELETE /comments/{id} requests
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "failed to delete comment")
		return
	}

	log.Debug("comment deleted", slog.Int64("comment_id", id))
	shared.RespondWithMessage(w, r, http.StatusOK, DeletedMessage)
}
