package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/calendar"
	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/productivity"
	"timesheet-dashboard/internal/repository"
)

type DashboardService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	logger   *logrus.Entry
	clock    func() time.Time
}

func NewDashboardService(sessions repository.SessionRepository, users repository.UserRepository, logger *logrus.Logger) *DashboardService {
	return &DashboardService{
		sessions: sessions,
		users:    users,
		logger:   logger.WithField("component", "dashboard_service"),
		clock:    time.Now,
	}
}

// UserSummary is the week of one team member.
type UserSummary struct {
	UserID      string               `json:"userId"`
	DisplayName string               `json:"displayName"`
	Role        models.Role          `json:"role"`
	Summary     productivity.Summary `json:"summary"`
}

// Overview is the dashboard landing page of a manager or admin.
type Overview struct {
	Week          calendar.Range            `json:"week"`
	IsCurrentWeek bool                      `json:"isCurrentWeek"`
	CanAdvance    bool                      `json:"canAdvance"`
	TeamSize      int                       `json:"teamSize"`
	Summary       productivity.Summary      `json:"summary"`
	TopPerformers []productivity.RankedUser `json:"topPerformers"`
	Users         []UserSummary             `json:"users"`
	RoleCounts    map[models.Role]int       `json:"roleCounts,omitempty"`
}

// MonthCalendar is one user's month with target progress.
type MonthCalendar struct {
	User           *models.User                 `json:"user"`
	Month          calendar.Range               `json:"month"`
	IsCurrentMonth bool                         `json:"isCurrentMonth"`
	CanAdvance     bool                         `json:"canAdvance"`
	Days           []calendar.Day               `json:"days"`
	Summary        productivity.Summary         `json:"summary"`
	Progress       productivity.MonthlyProgress `json:"progress"`
}

// Overview summarizes the week containing anchor over the users the actor
// oversees. Admins additionally get the role distribution.
func (s *DashboardService) Overview(ctx context.Context, actor *models.User, anchor time.Time, weekStartsOn time.Weekday, limit int) (*Overview, error) {
	team, err := visibleUsers(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	week := calendar.WeekRange(anchor, weekStartsOn)
	var sessions []models.Session
	if actor.IsAdmin() {
		// Admins see the whole organization, including sessions of users
		// no longer in the directory; those rank under their id.
		sessions, err = s.sessions.ListInRange(ctx, week.Start, week.End)
	} else {
		sessions, err = s.sessions.ListByUsersInRange(ctx, userIDs(team), week.Start, week.End)
	}
	if err != nil {
		return nil, fmt.Errorf("loading dashboard sessions: %w", err)
	}

	now := s.clock()
	overview := &Overview{
		Week:          week,
		IsCurrentWeek: calendar.IsCurrentWeek(anchor, now, weekStartsOn),
		CanAdvance:    calendar.CanAdvanceWeek(anchor, now, weekStartsOn),
		TeamSize:      len(team),
		Summary:       productivity.Summarize(sessions),
		TopPerformers: productivity.RankTopPerformers(sessions, team, limit),
		Users:         make([]UserSummary, 0, len(team)),
	}
	if overview.TopPerformers == nil {
		overview.TopPerformers = []productivity.RankedUser{}
	}

	byUser := productivity.GroupByUser(sessions)
	for _, u := range team {
		overview.Users = append(overview.Users, UserSummary{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Summary:     productivity.Summarize(byUser[u.ID]),
		})
	}

	if actor.IsAdmin() {
		counts, err := s.users.CountByRole(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting roles: %w", err)
		}
		overview.RoleCounts = counts
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"week":     models.DateKey(week.Start),
		"team":     len(team),
		"sessions": len(sessions),
	}).Debug("Dashboard overview built")

	return overview, nil
}

// MonthCalendar returns the padded month grid of one user together with the
// monthly target progress.
func (s *DashboardService) MonthCalendar(ctx context.Context, actor *models.User, userID string, anchorMonth time.Time, weekStartsOn time.Weekday) (*MonthCalendar, error) {
	owner, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, owner) {
		return nil, fmt.Errorf("%w: calendar of %s", ErrForbidden, userID)
	}

	month := calendar.MonthRange(anchorMonth)
	// The grid shows padding days of the neighbouring months too.
	span := calendar.MonthGridRange(anchorMonth, weekStartsOn)
	sessions, err := s.sessions.ListByUsersInRange(ctx, []string{owner.ID}, span.Start, span.End)
	if err != nil {
		return nil, fmt.Errorf("loading calendar sessions: %w", err)
	}

	var inMonth []models.Session
	for _, session := range sessions {
		if month.Contains(session.Date) {
			inMonth = append(inMonth, session)
		}
	}

	now := s.clock()
	return &MonthCalendar{
		User:           owner,
		Month:          month,
		IsCurrentMonth: calendar.IsCurrentMonth(anchorMonth, now),
		CanAdvance:     calendar.CanAdvanceMonth(anchorMonth, now),
		Days:           calendar.BuildMonthGrid(anchorMonth, sessions, weekStartsOn, now),
		Summary:        productivity.Summarize(inMonth),
		Progress:       productivity.ComputeMonthlyProgress(anchorMonth, sessions),
	}, nil
}
