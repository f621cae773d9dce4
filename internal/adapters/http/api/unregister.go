// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mergington/rollcall/internal/adapters/registry"
)

// UnregisterDependencies defines the interface for unregister operations.
type UnregisterDependencies interface {
	Unregister(ctx context.Context, activity, email string) error
}

// UnregisterHandler handles unregister requests.
type UnregisterHandler struct {
	deps UnregisterDependencies
}

// NewUnregisterHandler creates a new unregister handler.
func NewUnregisterHandler(deps UnregisterDependencies) *UnregisterHandler {
	return &UnregisterHandler{deps: deps}
}

// HandleUnregister handles DELETE /activities/{name}/unregister?email= requests.
func (h *UnregisterHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	activity, ok := rosterActivity(r.URL.Path, "unregister")
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email", NewKind(op, ErrMissingEmail))
		return
	}
	if err := h.deps.Unregister(r.Context(), activity, email); err != nil {
		switch {
		case errors.Is(err, registry.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, registry.ErrNotSignedUp):
			writeError(w, http.StatusBadRequest, "not_signed_up", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, activity),
	})
}
