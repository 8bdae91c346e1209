package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"timesheet-dashboard/internal/calendar"
	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/service"
)

func (h *Handler) Timesheet(w http.ResponseWriter, r *http.Request) {
	anchor, weekStartsOn, err := h.weekQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	sheet, err := h.timesheets.WeeklyTimesheet(r.Context(), actorFromContext(r.Context()),
		mux.Vars(r)["id"], anchor, weekStartsOn)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (h *Handler) ReviewTimesheet(w http.ResponseWriter, r *http.Request) {
	anchor, weekStartsOn, err := h.weekQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.timesheets.ReviewWeek(r.Context(), actorFromContext(r.Context()),
		mux.Vars(r)["id"], anchor, weekStartsOn, models.SessionStatus(req.Status), req.Comment)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weekStartsOn, err := calendar.ParseWeekStart(q.Get("weekStart"), h.weekStartsOn)
	if err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}
	month, err := calendar.ParseMonth(q.Get("month"), time.UTC, h.now())
	if err != nil {
		h.respondError(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	cal, err := h.dashboard.MonthCalendar(r.Context(), actorFromContext(r.Context()),
		mux.Vars(r)["id"], month, weekStartsOn)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	anchor, weekStartsOn, err := h.weekQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	limit, err := h.limitQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	overview, err := h.dashboard.Overview(r.Context(), actorFromContext(r.Context()), anchor, weekStartsOn, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
