// Package calendar resolves week and month boundaries and builds the day
// grids used by the timesheet and calendar views. Every function is pure:
// the current instant is always passed in by the caller.
package calendar

import (
	"time"
)

// Range is an inclusive span of calendar days. Both ends are midnight.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the calendar day of t lies inside the range.
func (r Range) Contains(t time.Time) bool {
	d := civil(t)
	return !d.Before(civil(r.Start)) && !d.After(civil(r.End))
}

// Days lists every day of the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !civil(d).After(civil(r.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// civil maps the calendar day of t onto UTC midnight so days from different
// locations compare by their wall-clock date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return civil(a).Equal(civil(b))
}

// WeekRange returns the week containing anchor. Start is the weekStartsOn day
// on or before anchor and End is six days later.
func WeekRange(anchor time.Time, weekStartsOn time.Weekday) Range {
	day := DateOnly(anchor)
	offset := (int(day.Weekday()) - int(weekStartsOn) + 7) % 7
	start := day.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// IsCurrentWeek reports whether anchor lies in the same week as now.
func IsCurrentWeek(anchor, now time.Time, weekStartsOn time.Weekday) bool {
	return SameDay(WeekRange(anchor, weekStartsOn).Start, WeekRange(now, weekStartsOn).Start)
}

// CanAdvanceWeek reports whether the week after anchor's week has already
// started. The current week is reachable, later weeks are not.
func CanAdvanceWeek(anchor, now time.Time, weekStartsOn time.Weekday) bool {
	next := WeekRange(anchor, weekStartsOn).Start.AddDate(0, 0, 7)
	current := WeekRange(now, weekStartsOn).Start
	return !civil(next).After(civil(current))
}

// PreviousWeek returns the anchor of the week before anchor's week.
func PreviousWeek(anchor time.Time, weekStartsOn time.Weekday) time.Time {
	return WeekRange(anchor, weekStartsOn).Start.AddDate(0, 0, -7)
}

// NextWeek returns the anchor of the week after anchor's week.
func NextWeek(anchor time.Time, weekStartsOn time.Weekday) time.Time {
	return WeekRange(anchor, weekStartsOn).Start.AddDate(0, 0, 7)
}

// MonthRange returns the first and last day of the month containing anchor.
func MonthRange(anchor time.Time) Range {
	y, m, _ := anchor.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, anchor.Location())
	return Range{Start: first, End: first.AddDate(0, 1, -1)}
}

// IsCurrentMonth reports whether anchor lies in the same month as now.
func IsCurrentMonth(anchor, now time.Time) bool {
	return anchor.Year() == now.Year() && anchor.Month() == now.Month()
}

// CanAdvanceMonth reports whether the month after anchor's month has already
// started, using the same closed boundary as CanAdvanceWeek.
func CanAdvanceMonth(anchor, now time.Time) bool {
	next := MonthRange(anchor).Start.AddDate(0, 1, 0)
	current := MonthRange(now).Start
	return !civil(next).After(civil(current))
}
