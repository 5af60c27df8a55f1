package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// BoardRequest is the body for board create and rename.
type BoardRequest struct {
	Name string `json:"name"`
}

// BoardsHandler handles board CRUD requests.
type BoardsHandler struct {
	boards    services.BoardService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewBoardsHandler creates a new boards handler.
func NewBoardsHandler(boards services.BoardService, evaluator *authz.Evaluator, logger *zap.Logger) *BoardsHandler {
	return &BoardsHandler{boards: boards, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the boards handler's routes on the given mux.
func (h *BoardsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects/{projectID}/boards", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects/{projectID}/boards", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/boards/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/boards/{id}", authMiddleware.RequireAuth(h.Rename))
	mux.HandleFunc("DELETE /api/boards/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Create handles POST /api/projects/{projectID}/boards. Admin-only.
func (h *BoardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: authz.ResourceProject, ID: projectID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceBoard, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize board creation")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req BoardRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	board, err := h.boards.Create(r.Context(), projectID, req.Name)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create board")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, board); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects/{projectID}/boards.
func (h *BoardsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.EvaluateInProject(r.Context(), actor, authz.ActionView, authz.ResourceBoard, projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize board list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	boards, err := h.boards.ListByProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list boards")
		return
	}
	if err := WriteJSON(w, http.StatusOK, boards); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/boards/{id}.
func (h *BoardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceBoard, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize board read")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	board, err := h.boards.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get board")
		return
	}
	if err := WriteJSON(w, http.StatusOK, board); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Rename handles PUT /api/boards/{id}. Team lead or admin.
func (h *BoardsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceBoard, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize board update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req BoardRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	board, err := h.boards.Rename(r.Context(), id, req.Name)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to rename board")
		return
	}
	if err := WriteJSON(w, http.StatusOK, board); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/boards/{id}. Team lead or admin.
func (h *BoardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceBoard, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize board delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.boards.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete board")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
