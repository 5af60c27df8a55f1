package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// AssignRequest is the body for assigning a user to a card.
type AssignRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// AssignmentStatusRequest is the body for assignment status updates.
type AssignmentStatusRequest struct {
	Status string `json:"status"`
}

// AssignmentsHandler handles card assignment requests.
type AssignmentsHandler struct {
	assignments services.AssignmentService
	evaluator   *authz.Evaluator
	logger      *zap.Logger
}

// NewAssignmentsHandler creates a new assignments handler.
func NewAssignmentsHandler(assignments services.AssignmentService, evaluator *authz.Evaluator, logger *zap.Logger) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the assignments handler's routes on the given mux.
func (h *AssignmentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/cards/{cardID}/assignments", authMiddleware.RequireAuth(h.Assign))
	mux.HandleFunc("GET /api/cards/{cardID}/assignments", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PUT /api/assignments/{id}/status", authMiddleware.RequireAuth(h.UpdateStatus))
	mux.HandleFunc("DELETE /api/assignments/{id}", authMiddleware.RequireAuth(h.Unassign))
}

// Assign handles POST /api/cards/{cardID}/assignments. Team lead or admin;
// assignees cannot put themselves on a card.
func (h *AssignmentsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID", h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: authz.ResourceCard, ID: cardID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceAssignment, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize assignment")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req AssignRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	a, err := h.assignments.Assign(r.Context(), cardID, req.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to assign card")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, a); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/cards/{cardID}/assignments.
func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
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
		respondServiceError(w, h.logger, err, "Failed to authorize assignment list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	assignments, err := h.assignments.ListByCard(r.Context(), cardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list assignments")
		return
	}
	if err := WriteJSON(w, http.StatusOK, assignments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStatus handles PUT /api/assignments/{id}/status. Team lead or the
// assignee themselves.
func (h *AssignmentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceAssignment, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize assignment update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req AssignmentStatusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	a, err := h.assignments.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update assignment status")
		return
	}
	if err := WriteJSON(w, http.StatusOK, a); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Unassign handles DELETE /api/assignments/{id}. Team lead or admin only;
// ownership does not grant removal.
func (h *AssignmentsHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceAssignment, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize unassignment")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.assignments.Unassign(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to unassign card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
