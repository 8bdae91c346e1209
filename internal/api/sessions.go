package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/service"
)

func (h *Handler) RecordSession(w http.ResponseWriter, r *http.Request) {
	var req service.RecordSessionInput
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	session, err := h.timesheets.RecordSession(r.Context(), actorFromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) PendingSessions(w http.ResponseWriter, r *http.Request) {
	pending, err := h.timesheets.Pending(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *Handler) SessionMetrics(w http.ResponseWriter, r *http.Request) {
	detail, err := h.timesheets.GetSession(r.Context(), actorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ReviewSession(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	session, err := h.timesheets.Review(r.Context(), actorFromContext(r.Context()),
		mux.Vars(r)["id"], models.SessionStatus(req.Status), req.Comment)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.timesheets.DeleteSession(r.Context(), actorFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
