package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
// Every route except /health requires the caller identity header.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(h.logger))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(h.identify)

	authed.HandleFunc("/me", h.Me).Methods(http.MethodGet)

	authed.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/role", h.AssignRole).Methods(http.MethodPut)
	authed.HandleFunc("/users/{id}/manager", h.AssignManager).Methods(http.MethodPut)
	authed.HandleFunc("/users/{id}/timesheet", h.Timesheet).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/timesheet/review", h.ReviewTimesheet).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/calendar", h.Calendar).Methods(http.MethodGet)
	authed.HandleFunc("/team", h.Team).Methods(http.MethodGet)

	authed.HandleFunc("/sessions", h.RecordSession).Methods(http.MethodPost)
	authed.HandleFunc("/sessions/pending", h.PendingSessions).Methods(http.MethodGet)
	authed.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	authed.HandleFunc("/sessions/{id}/metrics", h.SessionMetrics).Methods(http.MethodGet)
	authed.HandleFunc("/sessions/{id}/review", h.ReviewSession).Methods(http.MethodPost)

	authed.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)

	return r
}
