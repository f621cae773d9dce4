// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mergington/rollcall/internal/adapters/registry"
)

// SignupDependencies defines the interface for signup operations.
type SignupDependencies interface {
	Signup(ctx context.Context, activity, email string) error
}

// SignupHandler handles signup requests.
type SignupHandler struct {
	deps SignupDependencies
}

// NewSignupHandler creates a new signup handler.
func NewSignupHandler(deps SignupDependencies) *SignupHandler {
	return &SignupHandler{deps: deps}
}

// HandleSignup handles POST /activities/{name}/signup?email= requests.
func (h *SignupHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	activity, ok := rosterActivity(r.URL.Path, "signup")
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email", NewKind(op, ErrMissingEmail))
		return
	}
	if err := h.deps.Signup(r.Context(), activity, email); err != nil {
		switch {
		case errors.Is(err, registry.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, registry.ErrAlreadySignedUp):
			writeError(w, http.StatusBadRequest, "already_signed_up", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, activity),
	})
}
