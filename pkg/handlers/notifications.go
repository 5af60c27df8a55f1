package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// NotificationsHandler handles notification requests. Notifications are
// strictly personal, so every route is implicitly scoped to the actor and
// needs no evaluator call.
type NotificationsHandler struct {
	notifications services.NotificationService
	logger        *zap.Logger
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(notifications services.NotificationService, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, logger: logger}
}

// RegisterRoutes registers the notifications handler's routes on the given mux.
func (h *NotificationsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/notifications", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/notifications/{id}/read", authMiddleware.RequireAuth(h.MarkRead))
}

// List handles GET /api/notifications?unread=true.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notifications.ListForUser(r.Context(), actor.ID, unreadOnly)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list notifications")
		return
	}
	if err := WriteJSON(w, http.StatusOK, notifications); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkRead handles POST /api/notifications/{id}/read. The service filters
// by owner, so another user's notification reads as missing.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, actor.ID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
