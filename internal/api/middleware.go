package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/service"
	"timesheet-dashboard/pkg/telemetry"
)

// UserIDHeader carries the id of the authenticated caller. It is set by the
// identity-aware proxy in front of the API.
const UserIDHeader = "X-User-ID"

type contextKey string

const actorKey contextKey = "actor"

// identify resolves the caller from UserIDHeader and stores it in the
// request context. Unknown or missing callers get 401.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(UserIDHeader)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing "+UserIDHeader+" header")
			return
		}

		actor, err := h.users.GetUser(r.Context(), id)
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		if err != nil {
			h.respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) *models.User {
	actor, _ := ctx.Value(actorKey).(*models.User)
	return actor
}

// requestLogger logs every request with its status, duration and trace id.
func requestLogger(logger *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			fields := logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      m.Code,
				"duration_ms": m.Duration.Milliseconds(),
			}
			if traceID := telemetry.TraceID(r.Context()); traceID != "" {
				fields["trace_id"] = traceID
			}

			entry := logger.WithFields(fields)
			if m.Code >= http.StatusInternalServerError {
				entry.Warn("Request failed")
				return
			}
			entry.Info("Request handled")
		})
	}
}
