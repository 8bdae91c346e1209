package models

import (
	"fmt"
	"time"
)

// SessionStatus is the review state of a session. It is stored as a free
// string so values written by other clients survive a round trip.
type SessionStatus string

// Review states of a session
const (
	StatusSubmitted   SessionStatus = "submitted"   // waiting for the manager
	StatusApproved    SessionStatus = "approved"    // accepted by the manager
	StatusDisapproved SessionStatus = "disapproved" // rejected by the manager
)

// DateLayout is the layout of a date-only key.
const DateLayout = "2006-01-02"

type Session struct {
	ID     string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	Date   time.Time `gorm:"type:date;not null;index" json:"date"`

	// Clock in / clock out
	ClockIn  time.Time  `gorm:"not null" json:"clockIn"`
	ClockOut *time.Time `json:"clockOut,omitempty"`

	// Durations reported by the tracking client
	TotalMinutes int `gorm:"not null;default:0" json:"totalMinutes"`
	IdleMinutes  int `gorm:"not null;default:0" json:"idleMinutes"`

	Screenshots []Screenshot `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"screenshots"`

	Status          SessionStatus `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	ManagerComment  string        `json:"managerComment,omitempty"`
	EmployeeComment string        `json:"employeeComment,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Session) TableName() string {
	return "sessions"
}

// Screenshot is a single capture taken during a session.
type Screenshot struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SessionID  string    `gorm:"type:varchar(36);not null;index" json:"sessionId"`
	CapturedAt time.Time `gorm:"not null" json:"capturedAt"`
	ImageURL   string    `gorm:"not null" json:"imageUrl"`
}

func (Screenshot) TableName() string {
	return "screenshots"
}

// Minutes returns the total and idle minutes normalized for aggregation:
// negative values become 0 and idle never exceeds total.
func (s Session) Minutes() (total, idle int) {
	total = max(s.TotalMinutes, 0)
	idle = min(max(s.IdleMinutes, 0), total)
	return total, idle
}

// DateKey returns the YYYY-MM-DD bucketing key of the session day.
func (s Session) DateKey() string {
	return DateKey(s.Date)
}

// IsReviewed reports whether a manager already approved or rejected the session.
func (s Session) IsReviewed() bool {
	return s.Status == StatusApproved || s.Status == StatusDisapproved
}

// Duration returns the worked time as a short human readable string.
func (s Session) Duration() string {
	total, _ := s.Minutes()
	hours := total / 60
	minutes := total % 60

	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// IsValid checks the fields a tracking client must provide.
func (s *Session) IsValid() bool {
	if s.UserID == "" {
		return false
	}
	if s.Date.IsZero() {
		return false
	}
	if s.ClockIn.IsZero() {
		return false
	}
	if s.ClockOut != nil && s.ClockOut.Before(s.ClockIn) {
		return false
	}
	if s.TotalMinutes < 0 || s.IdleMinutes < 0 {
		return false
	}
	return true
}

// IsValidDecision reports whether status is a state a manager may set.
func IsValidDecision(status SessionStatus) bool {
	return status == StatusApproved || status == StatusDisapproved
}

// DateKey formats the calendar day of t using its own location.
func DateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// StorageDate converts the calendar day of t to UTC midnight, the form
// dates are persisted in.
func StorageDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
