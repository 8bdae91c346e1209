package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/service"
)

type roleRequest struct {
	Role models.Role `json:"role"`
}

type managerRequest struct {
	ManagerID *string `json:"managerId"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, actorFromContext(r.Context()))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), actorFromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, err := h.users.AssignRole(r.Context(), actorFromContext(r.Context()), mux.Vars(r)["id"], req.Role)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) AssignManager(w http.ResponseWriter, r *http.Request) {
	var req managerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, err := h.users.AssignManager(r.Context(), actorFromContext(r.Context()), mux.Vars(r)["id"], req.ManagerID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	team, err := h.users.Team(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}
