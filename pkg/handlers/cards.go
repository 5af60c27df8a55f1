package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// CardRequest is the body for card create and update.
type CardRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
}

func (req CardRequest) input() services.CardInput {
	return services.CardInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
}

// CardsHandler handles card CRUD requests.
type CardsHandler struct {
	cards     services.CardService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(cards services.CardService, evaluator *authz.Evaluator, logger *zap.Logger) *CardsHandler {
	return &CardsHandler{cards: cards, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the cards handler's routes on the given mux.
func (h *CardsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/boards/{boardID}/cards", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/boards/{boardID}/cards", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/cards/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/cards/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/cards/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Create handles POST /api/boards/{boardID}/cards. Team lead or admin.
func (h *CardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	boardID, ok := pathUUID(w, r, "boardID", h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: authz.ResourceBoard, ID: boardID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceCard, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize card creation")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req CardRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	card, err := h.cards.Create(r.Context(), boardID, req.input(), actor.ID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create card")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, card); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/boards/{boardID}/cards. Visibility follows the
// board: any project member may list its cards.
func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	boardID, ok := pathUUID(w, r, "boardID", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceBoard, ID: boardID})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize card list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	cards, err := h.cards.ListByBoard(r.Context(), boardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list cards")
		return
	}
	if err := WriteJSON(w, http.StatusOK, cards); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/cards/{id}.
func (h *CardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceCard, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize card read")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	card, err := h.cards.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get card")
		return
	}
	if err := WriteJSON(w, http.StatusOK, card); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/cards/{id}. Team lead or admin.
func (h *CardsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceCard, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize card update")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req CardRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	card, err := h.cards.Update(r.Context(), id, req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update card")
		return
	}
	if err := WriteJSON(w, http.StatusOK, card); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/cards/{id}. Team lead or admin.
func (h *CardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceCard, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize card delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.cards.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
