package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
)

// requireActor pulls the authenticated actor out of the request context.
// The auth middleware guarantees claims exist on protected routes, so a
// miss here means a wiring mistake, answered with 401.
func requireActor(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (authz.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return authz.Actor{}, false
	}
	return actor, true
}

// pathUUID parses a UUID path segment, answering 400 on garbage.
func pathUUID(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid "+name+" format"); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body, answering 400 on malformed JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
		return false
	}
	return true
}
