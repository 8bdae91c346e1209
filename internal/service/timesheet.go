package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/calendar"
	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/productivity"
	"timesheet-dashboard/internal/repository"
)

// Notifier delivers a short text message to a Telegram chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

type TimesheetService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	notifier Notifier
	logger   *logrus.Entry
	clock    func() time.Time
}

// NewTimesheetService builds the service. notifier may be nil, in which case
// employees are not told about reviews.
func NewTimesheetService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	notifier Notifier,
	logger *logrus.Logger,
) *TimesheetService {
	return &TimesheetService{
		sessions: sessions,
		users:    users,
		notifier: notifier,
		logger:   logger.WithField("component", "timesheet_service"),
		clock:    time.Now,
	}
}

// ScreenshotInput is one capture uploaded with a session.
type ScreenshotInput struct {
	CapturedAt time.Time `json:"capturedAt"`
	ImageURL   string    `json:"imageUrl"`
}

// RecordSessionInput is a finished session reported by the tracking client.
// Date defaults to the clock-in day and TotalMinutes to the clocked span.
type RecordSessionInput struct {
	Date            string            `json:"date"`
	ClockIn         time.Time         `json:"clockIn"`
	ClockOut        time.Time         `json:"clockOut"`
	TotalMinutes    *int              `json:"totalMinutes"`
	IdleMinutes     int               `json:"idleMinutes"`
	EmployeeComment string            `json:"employeeComment"`
	Screenshots     []ScreenshotInput `json:"screenshots"`
}

// SessionDetail is a session together with its derived metrics.
type SessionDetail struct {
	Session   models.Session              `json:"session"`
	OwnerName string                      `json:"ownerName"`
	Metrics   productivity.SessionMetrics `json:"metrics"`
}

// Timesheet is one user's week.
type Timesheet struct {
	User          *models.User                           `json:"user"`
	Week          calendar.Range                         `json:"week"`
	WeekStartsOn  string                                 `json:"weekStartsOn"`
	IsCurrentWeek bool                                   `json:"isCurrentWeek"`
	CanAdvance    bool                                   `json:"canAdvance"`
	PreviousWeek  string                                 `json:"previousWeek"`
	NextWeek      string                                 `json:"nextWeek,omitempty"`
	Days          []calendar.Day                         `json:"days"`
	Summary       productivity.Summary                   `json:"summary"`
	Metrics       map[string]productivity.SessionMetrics `json:"metrics"`
}

// WeekReview reports the outcome of reviewing a whole week.
type WeekReview struct {
	UserID  string               `json:"userId"`
	Week    calendar.Range       `json:"week"`
	Status  models.SessionStatus `json:"status"`
	Updated int64                `json:"updated"`
}

// RecordSession stores a closed session for the actor.
func (s *TimesheetService) RecordSession(ctx context.Context, actor *models.User, in RecordSessionInput) (*models.Session, error) {
	if in.ClockIn.IsZero() || in.ClockOut.IsZero() {
		return nil, fmt.Errorf("%w: clockIn and clockOut are required", ErrInvalidInput)
	}
	if in.ClockOut.Before(in.ClockIn) {
		return nil, fmt.Errorf("%w: clockOut is before clockIn", ErrInvalidInput)
	}

	total := int(in.ClockOut.Sub(in.ClockIn).Minutes())
	if in.TotalMinutes != nil {
		total = *in.TotalMinutes
	}
	if total < 0 || in.IdleMinutes < 0 {
		return nil, fmt.Errorf("%w: minutes must not be negative", ErrInvalidInput)
	}
	if in.IdleMinutes > total {
		return nil, fmt.Errorf("%w: idle minutes exceed total minutes", ErrInvalidInput)
	}

	date, err := calendar.ParseDate(in.Date, time.UTC, in.ClockIn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	clockOut := in.ClockOut
	session := &models.Session{
		UserID:          actor.ID,
		Date:            date,
		ClockIn:         in.ClockIn,
		ClockOut:        &clockOut,
		TotalMinutes:    total,
		IdleMinutes:     in.IdleMinutes,
		Status:          models.StatusSubmitted,
		EmployeeComment: strings.TrimSpace(in.EmployeeComment),
	}
	for _, shot := range in.Screenshots {
		if strings.TrimSpace(shot.ImageURL) == "" {
			return nil, fmt.Errorf("%w: screenshot without imageUrl", ErrInvalidInput)
		}
		capturedAt := shot.CapturedAt
		if capturedAt.IsZero() {
			capturedAt = in.ClockIn
		}
		session.Screenshots = append(session.Screenshots, models.Screenshot{
			CapturedAt: capturedAt,
			ImageURL:   shot.ImageURL,
		})
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("recording session: %w", err)
	}

	return session, nil
}

// GetSession returns a session the actor may see, with its metrics.
func (s *TimesheetService) GetSession(ctx context.Context, actor *models.User, id string) (*SessionDetail, error) {
	session, owner, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, owner) {
		return nil, fmt.Errorf("%w: session %s belongs to another team", ErrForbidden, id)
	}

	return &SessionDetail{
		Session:   *session,
		OwnerName: owner.DisplayName,
		Metrics:   productivity.ComputeSessionMetrics(*session),
	}, nil
}

// Pending lists the submitted sessions awaiting the actor's review, oldest first.
func (s *TimesheetService) Pending(ctx context.Context, actor *models.User) ([]SessionDetail, error) {
	team, err := visibleUsers(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(team))
	reviewable := make([]string, 0, len(team))
	for i := range team {
		if canReview(actor, &team[i]) {
			names[team[i].ID] = team[i].DisplayName
			reviewable = append(reviewable, team[i].ID)
		}
	}

	sessions, err := s.sessions.ListByStatus(ctx, reviewable, models.StatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("listing pending sessions: %w", err)
	}

	details := make([]SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		details = append(details, SessionDetail{
			Session:   session,
			OwnerName: names[session.UserID],
			Metrics:   productivity.ComputeSessionMetrics(session),
		})
	}
	return details, nil
}

// Review approves or disapproves one session and notifies its owner.
func (s *TimesheetService) Review(ctx context.Context, actor *models.User, id string, status models.SessionStatus, comment string) (*models.Session, error) {
	if !models.IsValidDecision(status) {
		return nil, fmt.Errorf("%w: status must be approved or disapproved", ErrInvalidInput)
	}

	session, owner, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canReview(actor, owner) {
		return nil, fmt.Errorf("%w: cannot review session %s", ErrForbidden, id)
	}

	comment = strings.TrimSpace(comment)
	if err := s.sessions.UpdateReview(ctx, id, status, comment); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reviewing session: %w", err)
	}
	session.Status = status
	session.ManagerComment = comment

	s.logger.WithFields(logrus.Fields{
		"actor_id":   actor.ID,
		"session_id": id,
		"status":     status,
	}).Info("Session reviewed")

	s.notify(ctx, owner, fmt.Sprintf("Your session on %s (%s) was %s%s",
		session.DateKey(), session.Duration(), status, commentSuffix(comment)))

	return session, nil
}

// WeeklyTimesheet returns the week containing anchor for one user.
func (s *TimesheetService) WeeklyTimesheet(ctx context.Context, actor *models.User, userID string, anchor time.Time, weekStartsOn time.Weekday) (*Timesheet, error) {
	owner, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, owner) {
		return nil, fmt.Errorf("%w: timesheet of %s", ErrForbidden, userID)
	}

	week := calendar.WeekRange(anchor, weekStartsOn)
	sessions, err := s.sessions.ListByUsersInRange(ctx, []string{owner.ID}, week.Start, week.End)
	if err != nil {
		return nil, fmt.Errorf("loading timesheet sessions: %w", err)
	}

	now := s.clock()
	sheet := &Timesheet{
		User:          owner,
		Week:          week,
		WeekStartsOn:  strings.ToLower(weekStartsOn.String()),
		IsCurrentWeek: calendar.IsCurrentWeek(anchor, now, weekStartsOn),
		CanAdvance:    calendar.CanAdvanceWeek(anchor, now, weekStartsOn),
		PreviousWeek:  models.DateKey(calendar.PreviousWeek(anchor, weekStartsOn)),
		Days:          calendar.BuildWeekGrid(anchor, sessions, weekStartsOn, now),
		Summary:       productivity.Summarize(sessions),
		Metrics:       make(map[string]productivity.SessionMetrics, len(sessions)),
	}
	if sheet.CanAdvance {
		sheet.NextWeek = models.DateKey(calendar.NextWeek(anchor, weekStartsOn))
	}
	for _, session := range sessions {
		sheet.Metrics[session.ID] = productivity.ComputeSessionMetrics(session)
	}

	return sheet, nil
}

// ReviewWeek applies one decision to every still submitted session of the
// user's week. Sessions that were already reviewed keep their status.
func (s *TimesheetService) ReviewWeek(ctx context.Context, actor *models.User, userID string, anchor time.Time, weekStartsOn time.Weekday, status models.SessionStatus, comment string) (*WeekReview, error) {
	if !models.IsValidDecision(status) {
		return nil, fmt.Errorf("%w: status must be approved or disapproved", ErrInvalidInput)
	}

	owner, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if !canReview(actor, owner) {
		return nil, fmt.Errorf("%w: cannot review the timesheet of %s", ErrForbidden, userID)
	}

	week := calendar.WeekRange(anchor, weekStartsOn)
	comment = strings.TrimSpace(comment)
	updated, err := s.sessions.UpdateReviewInRange(ctx, owner.ID, week.Start, week.End, status, comment)
	if err != nil {
		return nil, fmt.Errorf("reviewing week: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"user_id":  owner.ID,
		"week":     models.DateKey(week.Start),
		"status":   status,
		"updated":  updated,
	}).Info("Week reviewed")

	if updated > 0 {
		s.notify(ctx, owner, fmt.Sprintf("Your timesheet for %s to %s was %s (%d sessions)%s",
			models.DateKey(week.Start), models.DateKey(week.End), status, updated, commentSuffix(comment)))
	}

	return &WeekReview{
		UserID:  owner.ID,
		Week:    week,
		Status:  status,
		Updated: updated,
	}, nil
}

// DeleteSession removes a session and its screenshots. Owners may withdraw a
// session until it is reviewed; admins may delete any session.
func (s *TimesheetService) DeleteSession(ctx context.Context, actor *models.User, id string) error {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", id, err)
	}
	if session == nil {
		return fmt.Errorf("%w: session %s", ErrNotFound, id)
	}

	switch {
	case actor.IsAdmin():
	case actor.ID == session.UserID:
		if session.IsReviewed() {
			return fmt.Errorf("%w: session %s was already %s", ErrForbidden, id, session.Status)
		}
	default:
		return fmt.Errorf("%w: cannot delete session %s", ErrForbidden, id)
	}

	if err := s.sessions.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return fmt.Errorf("%w: session %s", ErrNotFound, id)
		}
		return fmt.Errorf("deleting session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id":   actor.ID,
		"session_id": id,
		"user_id":    session.UserID,
	}).Info("Session deleted")

	return nil
}

func (s *TimesheetService) loadSession(ctx context.Context, id string) (*models.Session, *models.User, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	if session == nil {
		return nil, nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}

	owner, err := loadUser(ctx, s.users, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	return session, owner, nil
}

// notify tells the owner about a review. Delivery failures are logged and
// never undo the review.
func (s *TimesheetService) notify(ctx context.Context, owner *models.User, text string) {
	if s.notifier == nil || owner.TelegramChatID == nil {
		return
	}
	if err := s.notifier.Notify(ctx, *owner.TelegramChatID, text); err != nil {
		s.logger.WithError(err).WithField("user_id", owner.ID).Warn("Failed to notify user about review")
	}
}

func commentSuffix(comment string) string {
	if comment == "" {
		return ""
	}
	return ": " + comment
}
