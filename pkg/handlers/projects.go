package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// ProjectRequest is the body for project create and update.
type ProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// ProjectsHandler handles project CRUD requests.
type ProjectsHandler struct {
	projects  services.ProjectService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projects services.ProjectService, evaluator *authz.Evaluator, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/projects/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("GET /api/projects/slug/{slug}", authMiddleware.RequireAuth(h.GetBySlug))
	mux.HandleFunc("PUT /api/projects/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/projects/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Create handles POST /api/projects. Project creation is admin-only.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceProject, authz.Ref{})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize project creation")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req ProjectRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	project, err := h.projects.Create(r.Context(), req.Name, req.Description, req.Deadline, actor.ID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create project")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects. Admins see everything; everyone else
// sees the projects they are a member of.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	memberID := &actor.ID
	if actor.IsAdmin() {
		memberID = nil
	}
	projects, err := h.projects.List(r.Context(), memberID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list projects")
		return
	}
	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceProject, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize project read")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get project")
		return
	}
	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetBySlug handles GET /api/projects/slug/{slug}. The slug is resolved
// first, then the evaluator runs against the found project's id.
func (h *ProjectsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	project, err := h.projects.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get project")
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceProject, ID: project.ID})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize project read")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/projects/{id}. Admin-only.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceProject, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize project update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req ProjectRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	project, err := h.projects.Update(r.Context(), id, req.Name, req.Description, req.Deadline)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update project")
		return
	}
	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/projects/{id}. Admin-only.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceProject, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize project delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
