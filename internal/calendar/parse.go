package calendar

import (
	"fmt"
	"strings"
	"time"

	"timesheet-dashboard/internal/models"
)

// MonthLayout is the layout of a month query value.
const MonthLayout = "2006-01"

// ParseDate parses a YYYY-MM-DD value in loc. An empty value yields fallback.
func ParseDate(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if value == "" {
		return DateOnly(fallback), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM value in loc. An empty value yields the month of fallback.
func ParseMonth(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if value == "" {
		return MonthRange(fallback).Start, nil
	}
	t, err := time.ParseInLocation(MonthLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", value, err)
	}
	return t, nil
}

// ParseWeekStart accepts "sunday" or "monday" (case-insensitive). An empty
// value yields fallback.
func ParseWeekStart(value string, fallback time.Weekday) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback, nil
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return fallback, fmt.Errorf("invalid week start %q, expected sunday or monday", value)
	}
}
