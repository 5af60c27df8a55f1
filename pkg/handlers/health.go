package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/config"
)

// Pinger is the database probe the readiness check runs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusResponse contains service status and version information.
type StatusResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Environment string `json:"environment"`
}

// HealthHandler handles liveness and readiness endpoints.
type HealthHandler struct {
	cfg    *config.Config
	db     Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg *config.Config, db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Live)
	mux.HandleFunc("GET /readyz", h.Ready)
}

// Live handles GET /healthz. A flat "ok" is all orchestrators need.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready handles GET /readyz. Ready means the database answers a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Readiness ping failed", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusServiceUnavailable, "not_ready", "Database unreachable"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	response := StatusResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "taskhive-engine",
		GoVersion:   runtime.Version(),
		Environment: h.cfg.Env,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode readiness response", zap.Error(err))
	}
}
