// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mergington/rollcall/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ListActivities returns the full registry keyed by activity name.
	ListActivities(ctx context.Context) (map[string]*model.Activity, error)

	// Signup adds a student's email to an activity roster.
	Signup(ctx context.Context, activity, email string) error

	// Unregister removes a student's email from an activity roster.
	Unregister(ctx context.Context, activity, email string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	signupHandler     *SignupHandler
	unregisterHandler *UnregisterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps),
		signupHandler:     NewSignupHandler(deps),
		unregisterHandler: NewUnregisterHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/activities", MetricsMiddleware(s.activitiesHandler.HandleGetActivities, "activities"))
	mux.HandleFunc("/activities/", MetricsMiddleware(s.routeRoster, "roster"))
}

// routeRoster dispatches roster mutations under /activities/. The subtree
// serves only /activities/{name}/signup and /activities/{name}/unregister;
// anything else is unknown.
func (s *Server) routeRoster(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/signup"):
		s.signupHandler.HandleSignup(w, r)
	case strings.HasSuffix(r.URL.Path, "/unregister"):
		s.unregisterHandler.HandleUnregister(w, r)
	default:
		http.NotFound(w, r)
	}
}

// rosterActivity extracts the activity name from /activities/{name}/{op}.
// The name must be a single non-empty path segment; ok is false otherwise.
func rosterActivity(path, op string) (name string, ok bool) {
	rest := strings.TrimPrefix(path, "/activities/")
	name = strings.TrimSuffix(rest, "/"+op)
	if name == rest || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// messageResponse mirrors the OpenAPI schema for roster mutations.
type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Detail: msg})
}
