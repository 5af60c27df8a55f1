package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// TimeLogRequest is the body for time log create and update.
type TimeLogRequest struct {
	SubtaskID *uuid.UUID `json:"subtask_id,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Note      string     `json:"note"`
}

// FinishRequest closes an open time log session.
type FinishRequest struct {
	EndedAt time.Time `json:"ended_at"`
}

// TimeLogsHandler handles work session requests.
type TimeLogsHandler struct {
	timeLogs  services.TimeLogService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewTimeLogsHandler creates a new time logs handler.
func NewTimeLogsHandler(timeLogs services.TimeLogService, evaluator *authz.Evaluator, logger *zap.Logger) *TimeLogsHandler {
	return &TimeLogsHandler{timeLogs: timeLogs, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the time logs handler's routes on the given mux.
func (h *TimeLogsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/cards/{cardID}/timelogs", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/cards/{cardID}/timelogs", authMiddleware.RequireAuth(h.ListByCard))
	mux.HandleFunc("GET /api/timelogs/mine", authMiddleware.RequireAuth(h.ListMine))
	mux.HandleFunc("POST /api/timelogs/{id}/finish", authMiddleware.RequireAuth(h.Finish))
	mux.HandleFunc("PUT /api/timelogs/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/timelogs/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Create handles POST /api/cards/{cardID}/timelogs. Any project member
// logs time for themselves.
func (h *TimeLogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID", h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: authz.ResourceCard, ID: cardID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceTimeLog, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize time log creation")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req TimeLogRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	tl, err := h.timeLogs.Create(r.Context(), cardID, req.SubtaskID, actor.ID, req.StartedAt, req.EndedAt, req.Note)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create time log")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, tl); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByCard handles GET /api/cards/{cardID}/timelogs.
func (h *TimeLogsHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
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
		respondServiceError(w, h.logger, err, "Failed to authorize time log list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	logs, err := h.timeLogs.ListByCard(r.Context(), cardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list time logs")
		return
	}
	if err := WriteJSON(w, http.StatusOK, logs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMine handles GET /api/timelogs/mine?from=...&to=... Users always see
// their own sessions; no evaluator call needed.
func (h *TimeLogsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	from, to, ok := parseDateRange(w, r, h.logger)
	if !ok {
		return
	}

	logs, err := h.timeLogs.ListByUser(r.Context(), actor.ID, from, to)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list time logs")
		return
	}
	if err := WriteJSON(w, http.StatusOK, logs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Finish handles POST /api/timelogs/{id}/finish. Owner or team lead.
func (h *TimeLogsHandler) Finish(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceTimeLog, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize time log update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req FinishRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	tl, err := h.timeLogs.Finish(r.Context(), id, req.EndedAt)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to finish time log")
		return
	}
	if err := WriteJSON(w, http.StatusOK, tl); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/timelogs/{id}. Owner or team lead.
func (h *TimeLogsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceTimeLog, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize time log update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req TimeLogRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	tl, err := h.timeLogs.Update(r.Context(), id, req.StartedAt, req.EndedAt, req.Note)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update time log")
		return
	}
	if err := WriteJSON(w, http.StatusOK, tl); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/timelogs/{id}. Owner or team lead.
func (h *TimeLogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceTimeLog, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize time log delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.timeLogs.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete time log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseDateRange reads from/to query params as RFC 3339, defaulting to the
// last 30 days.
func parseDateRange(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (time.Time, time.Time, bool) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_range", "from must be RFC 3339"); werr != nil {
				logger.Error("Failed to write error response", zap.Error(werr))
			}
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_range", "to must be RFC 3339"); werr != nil {
				logger.Error("Failed to write error response", zap.Error(werr))
			}
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}
