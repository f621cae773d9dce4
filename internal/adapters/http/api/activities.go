// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/mergington/rollcall/internal/domain/model"
)

// ActivitiesDependencies defines the interface for registry listing operations.
type ActivitiesDependencies interface {
	ListActivities(ctx context.Context) (map[string]*model.Activity, error)
}

// ActivitiesHandler handles activity listing requests.
type ActivitiesHandler struct {
	deps ActivitiesDependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivitiesDependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleGetActivities handles GET /activities requests.
func (h *ActivitiesHandler) HandleGetActivities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_activities"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	activities, err := h.deps.ListActivities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
