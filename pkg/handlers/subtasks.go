package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// SubtaskRequest is the body for subtask create and update.
type SubtaskRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// SubtasksHandler handles subtask CRUD requests.
type SubtasksHandler struct {
	subtasks  services.SubtaskService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewSubtasksHandler creates a new subtasks handler.
func NewSubtasksHandler(subtasks services.SubtaskService, evaluator *authz.Evaluator, logger *zap.Logger) *SubtasksHandler {
	return &SubtasksHandler{subtasks: subtasks, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the subtasks handler's routes on the given mux.
func (h *SubtasksHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/cards/{cardID}/subtasks", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/cards/{cardID}/subtasks", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/subtasks/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/subtasks/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/subtasks/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Create handles POST /api/cards/{cardID}/subtasks. Any project member.
func (h *SubtasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID", h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: authz.ResourceCard, ID: cardID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceSubtask, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize subtask creation")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req SubtaskRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	subtask, err := h.subtasks.Create(r.Context(), cardID, req.Title)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create subtask")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, subtask); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/cards/{cardID}/subtasks.
func (h *SubtasksHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceCard, ID: cardID})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize subtask list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	subtasks, err := h.subtasks.ListByCard(r.Context(), cardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list subtasks")
		return
	}
	if err := WriteJSON(w, http.StatusOK, subtasks); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/subtasks/{id}.
func (h *SubtasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceSubtask, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize subtask read")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	subtask, err := h.subtasks.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get subtask")
		return
	}
	if err := WriteJSON(w, http.StatusOK, subtask); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/subtasks/{id}.
func (h *SubtasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceSubtask, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize subtask update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req SubtaskRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	subtask, err := h.subtasks.Update(r.Context(), id, req.Title, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update subtask")
		return
	}
	if err := WriteJSON(w, http.StatusOK, subtask); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/subtasks/{id}.
func (h *SubtasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceSubtask, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize subtask delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.subtasks.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete subtask")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
