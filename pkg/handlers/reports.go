package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// ReportsHandler handles dashboard aggregate requests.
type ReportsHandler struct {
	reports   services.ReportService
	evaluator *authz.Evaluator
	logger    *zap.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(reports services.ReportService, evaluator *authz.Evaluator, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{reports: reports, evaluator: evaluator, logger: logger}
}

// RegisterRoutes registers the reports handler's routes on the given mux.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects/{id}/report", authMiddleware.RequireAuth(h.ProjectReport))
	mux.HandleFunc("GET /api/reports/workload", authMiddleware.RequireAuth(h.Workload))
}

// ProjectReport handles GET /api/projects/{id}/report. Visible to anyone
// who can view the project.
func (h *ReportsHandler) ProjectReport(w http.ResponseWriter, r *http.Request) {
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
		respondServiceError(w, h.logger, err, "Failed to authorize report read")
		return
	}
	if !respondDecision(w, h.logger, d) {
		return
	}

	report, err := h.reports.ProjectReport(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build project report")
		return
	}
	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Workload handles GET /api/reports/workload?project=...&from=...&to=...
// Cross-project workload is admin-only; scoped to a project it follows
// the project's view rule.
func (h *ReportsHandler) Workload(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	var projectID *uuid.UUID
	if v := r.URL.Query().Get("project"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid project format"); werr != nil {
				h.logger.Error("Failed to write error response", zap.Error(werr))
			}
			return
		}
		projectID = &id
	}

	if projectID == nil {
		if !actor.IsAdmin() {
			respondDecision(w, h.logger, authz.Deny)
			return
		}
	} else {
		d, err := h.evaluator.Evaluate(r.Context(), actor, authz.ActionView, authz.Ref{Type: authz.ResourceProject, ID: *projectID})
		if err != nil {
			respondServiceError(w, h.logger, err, "Failed to authorize workload read")
			return
		}
		if !respondDecision(w, h.logger, d) {
			return
		}
	}

	from, to, ok := parseDateRange(w, r, h.logger)
	if !ok {
		return
	}

	workloads, err := h.reports.Workloads(r.Context(), projectID, from, to)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build workload report")
		return
	}
	if err := WriteJSON(w, http.StatusOK, workloads); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
