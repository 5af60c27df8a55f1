package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// UserRequest is the body for user create and update.
type UserRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GlobalRole string `json:"global_role"`
}

// UsersHandler handles account management requests. Account creation and
// role changes are admin-only; any authenticated user can read their own
// record.
type UsersHandler struct {
	users  services.UserService
	logger *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(users services.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/users", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/users/me", authMiddleware.RequireAuth(h.Me))
	mux.HandleFunc("GET /api/users/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/users/{id}", authMiddleware.RequireAuth(h.Update))
}

// Create handles POST /api/users. Admin-only.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondForbidden(w, h.logger)
		return
	}

	var req UserRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Name, req.GlobalRole)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create user")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get user")
		return
	}
	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/users/{id}. Admins, or the user themselves.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if !actor.IsAdmin() && actor.ID != id {
		respondForbidden(w, h.logger)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get user")
		return
	}
	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/users/{id}. Admin-only since it can change the
// global role.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondForbidden(w, h.logger)
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UserRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.users.Update(r.Context(), id, req.Name, req.GlobalRole)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update user")
		return
	}
	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func respondForbidden(w http.ResponseWriter, logger *zap.Logger) {
	if err := ErrorResponse(w, http.StatusForbidden, "forbidden", "You do not have access to this resource"); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
