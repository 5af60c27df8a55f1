package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// MembershipRequest is the body for adding a member or changing a role.
type MembershipRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// MembershipsHandler handles project membership requests. Every action
// here is admin-only; the evaluator enforces it.
type MembershipsHandler struct {
	memberships services.MembershipService
	evaluator   *authz.Evaluator
	logger      *zap.Logger
}

// NewMembershipsHandler creates a new memberships handler.
func NewMembershipsHandler(memberships services.MembershipService, evaluator *authz.Evaluator, logger *zap.Logger) *MembershipsHandler {
	return &MembershipsHandler{memberships: memberships, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the memberships handler's routes on the given mux.
func (h *MembershipsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects/{id}/members", authMiddleware.RequireAuth(h.Add))
	mux.HandleFunc("GET /api/projects/{id}/members", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PUT /api/projects/{id}/members/{userID}", authMiddleware.RequireAuth(h.UpdateRole))
	mux.HandleFunc("DELETE /api/projects/{id}/members/{userID}", authMiddleware.RequireAuth(h.Remove))
}

// authorize runs the membership rule for the project, writing the error
// response on denial.
func (h *MembershipsHandler) authorize(w http.ResponseWriter, r *http.Request, action authz.Action, projectID uuid.UUID) bool {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return false
	}
	d, err := h.evaluator.EvaluateInProject(r.Context(), actor, action, authz.ResourceMembership, projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize membership action")
		return false
	}
	return respondDecision(w, h.logger, d)
}

// Add handles POST /api/projects/{id}/members. Adding a user who is
// already a member replaces their role.
func (h *MembershipsHandler) Add(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if !h.authorize(w, r, authz.ActionCreate, projectID) {
		return
	}

	var req MembershipRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	m, err := h.memberships.Add(r.Context(), projectID, req.UserID, req.Role)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to add member")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, m); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects/{id}/members.
func (h *MembershipsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if !h.authorize(w, r, authz.ActionView, projectID) {
		return
	}

	members, err := h.memberships.ListByProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list members")
		return
	}
	if err := WriteJSON(w, http.StatusOK, members); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateRole handles PUT /api/projects/{id}/members/{userID}.
func (h *MembershipsHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userID", h.logger)
	if !ok {
		return
	}
	if !h.authorize(w, r, authz.ActionUpdate, projectID) {
		return
	}

	var req MembershipRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	m, err := h.memberships.Add(r.Context(), projectID, userID, req.Role)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update member role")
		return
	}
	if err := WriteJSON(w, http.StatusOK, m); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Remove handles DELETE /api/projects/{id}/members/{userID}.
func (h *MembershipsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userID", h.logger)
	if !ok {
		return
	}
	if !h.authorize(w, r, authz.ActionDelete, projectID) {
		return
	}

	if err := h.memberships.Remove(r.Context(), projectID, userID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
