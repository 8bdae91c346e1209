package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/calendar"
	"timesheet-dashboard/internal/service"
)

type Handler struct {
	users      *service.UserService
	timesheets *service.TimesheetService
	dashboard  *service.DashboardService

	weekStartsOn time.Weekday
	topLimit     int

	logger *logrus.Entry
	clock  func() time.Time
}

func NewHandler(
	users *service.UserService,
	timesheets *service.TimesheetService,
	dashboard *service.DashboardService,
	weekStartsOn time.Weekday,
	topLimit int,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:        users,
		timesheets:   timesheets,
		dashboard:    dashboard,
		weekStartsOn: weekStartsOn,
		topLimit:     topLimit,
		logger:       logger.WithField("component", "api"),
		clock:        time.Now,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type reviewRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps service errors onto HTTP status codes. Unexpected errors
// are logged and hidden from the client.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", service.ErrInvalidInput)
	}
	return nil
}

func (h *Handler) now() time.Time {
	return h.clock().UTC()
}

// weekQuery reads the week anchor and first weekday of a request.
func (h *Handler) weekQuery(r *http.Request) (time.Time, time.Weekday, error) {
	q := r.URL.Query()
	weekStartsOn, err := calendar.ParseWeekStart(q.Get("weekStart"), h.weekStartsOn)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	anchor, err := calendar.ParseDate(q.Get("week"), time.UTC, h.now())
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return anchor, weekStartsOn, nil
}

func (h *Handler) limitQuery(r *http.Request) (int, error) {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return h.topLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", service.ErrInvalidInput)
	}
	return limit, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
