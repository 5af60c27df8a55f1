package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// ReviewRequest is the body for review submit and amend.
type ReviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ReviewsHandler handles card review requests.
type ReviewsHandler struct {
	reviews   services.ReviewService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(reviews services.ReviewService, evaluator *authz.Evaluator, logger *zap.Logger) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the reviews handler's routes on the given mux.
func (h *ReviewsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/cards/{cardID}/reviews", authMiddleware.RequireAuth(h.Submit))
	mux.HandleFunc("GET /api/cards/{cardID}/reviews", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PUT /api/reviews/{id}", authMiddleware.RequireAuth(h.Amend))
	mux.HandleFunc("DELETE /api/reviews/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Submit handles POST /api/cards/{cardID}/reviews. Team lead or admin.
func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID", h.logger)
	if !ok {
		return
	}

	parent := authz.Ref{Type: authz.ResourceCard, ID: cardID}
	d, err := h.evaluator.EvaluateCreate(r.Context(), actor, authz.ResourceReview, parent)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize review submission")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req ReviewRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	review, err := h.reviews.Submit(r.Context(), cardID, actor.ID, req.Status, req.Notes)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to submit review")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, review); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/cards/{cardID}/reviews. The full history is
// visible to team leads and admins only; reviewers reach their own verdict
// through the per-record rule.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID", h.logger)
	if !ok {
		return
	}

	card := authz.Ref{Type: authz.ResourceCard, ID: cardID}
	d, err := h.evaluator.EvaluateInScope(r.Context(), actor, authz.ActionView, authz.ResourceReview, card)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize review list")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	reviews, err := h.reviews.ListByCard(r.Context(), cardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list reviews")
		return
	}
	if err := WriteJSON(w, http.StatusOK, reviews); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Amend handles PUT /api/reviews/{id}. Reviewer only, within the amendment
// window; the service enforces the window.
func (h *ReviewsHandler) Amend(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionUpdate, authz.Ref{Type: authz.ResourceReview, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize review amendment")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	var req ReviewRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	review, err := h.reviews.Amend(r.Context(), id, actor.ID, req.Status, req.Notes)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to amend review")
		return
	}
	if err := WriteJSON(w, http.StatusOK, review); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/reviews/{id}. Admin only.
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionDelete, authz.Ref{Type: authz.ResourceReview, ID: id})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to authorize review delete")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
