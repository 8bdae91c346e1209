package calendar

import (
	"time"

	"timesheet-dashboard/internal/models"
)

// Day is one cell of a calendar grid.
type Day struct {
	Date            time.Time        `json:"date"`
	IsCurrentPeriod bool             `json:"isCurrentPeriod"`
	IsToday         bool             `json:"isToday"`
	Sessions        []models.Session `json:"sessions"`
	TotalMinutes    int              `json:"totalMinutes"`
}

// BuildMonthGrid returns the days of anchorMonth padded with the neighbouring
// months' days needed to complete whole weeks starting on weekStartsOn.
// Sessions are attached to the day whose date key matches theirs.
func BuildMonthGrid(anchorMonth time.Time, sessions []models.Session, weekStartsOn time.Weekday, now time.Time) []Day {
	return buildGrid(MonthGridRange(anchorMonth, weekStartsOn), MonthRange(anchorMonth), sessions, now)
}

// MonthGridRange returns the whole weeks covering the month of anchorMonth.
func MonthGridRange(anchorMonth time.Time, weekStartsOn time.Weekday) Range {
	month := MonthRange(anchorMonth)
	lastWeekday := (weekStartsOn + 6) % 7

	start := month.Start.AddDate(0, 0, -((int(month.Start.Weekday()) - int(weekStartsOn) + 7) % 7))
	end := month.End.AddDate(0, 0, (int(lastWeekday)-int(month.End.Weekday())+7)%7)
	return Range{Start: start, End: end}
}

// BuildWeekGrid returns the seven days of the week containing anchor.
func BuildWeekGrid(anchor time.Time, sessions []models.Session, weekStartsOn time.Weekday, now time.Time) []Day {
	week := WeekRange(anchor, weekStartsOn)
	return buildGrid(week, week, sessions, now)
}

func buildGrid(span, period Range, sessions []models.Session, now time.Time) []Day {
	buckets := bucketByDate(sessions)

	days := make([]Day, 0, 42)
	for _, date := range span.Days() {
		bucket := buckets[models.DateKey(date)]
		if bucket == nil {
			bucket = []models.Session{}
		}

		total := 0
		for _, s := range bucket {
			minutes, _ := s.Minutes()
			total += minutes
		}

		days = append(days, Day{
			Date:            date,
			IsCurrentPeriod: period.Contains(date),
			IsToday:         SameDay(date, now),
			Sessions:        bucket,
			TotalMinutes:    total,
		})
	}
	return days
}

func bucketByDate(sessions []models.Session) map[string][]models.Session {
	buckets := make(map[string][]models.Session)
	for _, s := range sessions {
		key := s.DateKey()
		buckets[key] = append(buckets[key], s)
	}
	return buckets
}

// WorkingDaysInMonth counts the days of the month containing anchorMonth that
// fall on Monday through Friday. Holidays are not considered.
func WorkingDaysInMonth(anchorMonth time.Time) int {
	count := 0
	for _, d := range MonthRange(anchorMonth).Days() {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			count++
		}
	}
	return count
}
