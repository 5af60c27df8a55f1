package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// CommentRequest is the body for comment create and update.
type CommentRequest struct {
	Body string `json:"body"`
}

// CommentsHandler handles comment requests. Comments attach to exactly one
// of a card or a subtask, so create and list are nested under both.
type CommentsHandler struct {
	comments  services.CommentService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewCommentsHandler creates a new comments handler.
func NewCommentsHandler(comments services.CommentService, evaluator *authz.Evaluator, logger *zap.Logger) *CommentsHandler {
	return &CommentsHandler{comments: comments, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the comments handler's routes on the given mux.
func (h *CommentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/cards/{cardID}/comments", authMiddleware.RequireAuth(h.CreateOnCard))
	mux.HandleFunc("GET /api/cards/{cardID}/comments", authMiddleware.RequireAuth(h.ListOnCard))
	mux.HandleFunc("POST /api/subtasks/{subtaskID}/comments", authMiddleware.RequireAuth(h.CreateOnSubtask))
	mux.HandleFunc("GET /api/subtasks/{subtaskID}/comments", authMiddleware.RequireAuth(h.ListOnSubtask))
	mux.HandleFunc("PUT /api/comments/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/comments/{id}", authMiddleware.RequireAuth(h.Delete))
}

// CreateOnCard handles POST /api/cards/{cardID}/comments.
func (h *CommentsHandler) CreateOnCard(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "cardID", models.CommentTargetCard, authz.ResourceCard)
}

// CreateOnSubtask handles POST /api/subtasks/{subtaskID}/comments.
func (h *CommentsHandler) CreateOnSubtask(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "subtaskID", models.CommentTargetSubtask, authz.ResourceSubtask)
}

func (h *CommentsHandler) create(w http.ResponseWriter, r *http.Request, pathName string, kind models.CommentTargetKind, parentType authz.ResourceType) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	targetID, ok := pathUUID(w, r, pathName, h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: parentType, ID: targetID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceComment, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize comment creation")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req CommentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	target, err := models.NewCommentTarget(kind, targetID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build comment target")
		return
	}
	comment, err := h.comments.Create(r.Context(), target, actor.ID, req.Body)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create comment")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, comment); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListOnCard handles GET /api/cards/{cardID}/comments.
func (h *CommentsHandler) ListOnCard(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "cardID", models.CommentTargetCard, authz.ResourceCard)
}

// ListOnSubtask handles GET /api/subtasks/{subtaskID}/comments.
func (h *CommentsHandler) ListOnSubtask(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "subtaskID", models.CommentTargetSubtask, authz.ResourceSubtask)
}

func (h *CommentsHandler) list(w http.ResponseWriter, r *http.Request, pathName string, kind models.CommentTargetKind, parentType authz.ResourceType) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	targetID, ok := pathUUID(w, r, pathName, h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: parentType, ID: targetID})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize comment list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	comments, err := h.comments.ListByTarget(r.Context(), models.CommentTarget{Kind: kind, ID: targetID})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list comments")
		return
	}
	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/comments/{id}. Author or team lead.
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceComment, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize comment update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req CommentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	comment, err := h.comments.Update(r.Context(), id, req.Body)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update comment")
		return
	}
	if err := WriteJSON(w, http.StatusOK, comment); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/comments/{id}. Author or team lead.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceComment, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize comment delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.comments.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
