package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"timesheet-dashboard/internal/models"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*models.User)

func WithRole(r models.Role) UserOption {
	return func(u *models.User) {
		u.Role = r
	}
}

func WithManager(managerID string) UserOption {
	return func(u *models.User) {
		u.ManagerID = &managerID
	}
}

func WithTelegramChat(chatID int64) UserOption {
	return func(u *models.User) {
		u.TelegramChatID = &chatID
	}
}

func WithUserID(id string) UserOption {
	return func(u *models.User) {
		u.ID = id
	}
}

func NewTestUser(name string, opts ...UserOption) *models.User {
	n := testEmailCounter.Add(1)
	u := &models.User{
		ID:          uuid.New().String(),
		DisplayName: name,
		Email:       fmt.Sprintf("user%d@example.com", n),
		Role:        models.RoleEmployee,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Session options
type SessionOption func(*models.Session)

func WithIdle(minutes int) SessionOption {
	return func(s *models.Session) {
		s.IdleMinutes = minutes
	}
}

func WithStatus(status models.SessionStatus) SessionOption {
	return func(s *models.Session) {
		s.Status = status
	}
}

func WithScreenshots(urls ...string) SessionOption {
	return func(s *models.Session) {
		for i, url := range urls {
			s.Screenshots = append(s.Screenshots, models.Screenshot{
				CapturedAt: s.ClockIn.Add(time.Duration(i+1) * 10 * time.Minute),
				ImageURL:   url,
			})
		}
	}
}

// NewTestSession builds a submitted session that clocks in at 09:00 on date
// and lasts totalMinutes.
func NewTestSession(userID string, date time.Time, totalMinutes int, opts ...SessionOption) *models.Session {
	day := models.StorageDate(date)
	clockIn := day.Add(9 * time.Hour)
	clockOut := clockIn.Add(time.Duration(totalMinutes) * time.Minute)
	s := &models.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Date:         day,
		ClockIn:      clockIn,
		ClockOut:     &clockOut,
		TotalMinutes: totalMinutes,
		Status:       models.StatusSubmitted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Day returns UTC midnight of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
