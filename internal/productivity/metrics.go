// Package productivity turns raw session records into the derived metrics,
// summaries and rankings shown on the dashboards. Inputs are never mutated
// and malformed values are normalized instead of rejected.
package productivity

import (
	"timesheet-dashboard/internal/models"
)

// ExpectedDailyMinutes is the length of the expected workday (8 hours).
const ExpectedDailyMinutes = 480

// Rating is the performance tier of a session.
type Rating string

const (
	RatingExcellent    Rating = "Excellent"
	RatingGood         Rating = "Good"
	RatingAverage      Rating = "Average"
	RatingBelowAverage Rating = "BelowAverage"
	RatingPoor         Rating = "Poor"
)

// SessionMetrics is derived from a single session.
type SessionMetrics struct {
	TotalMinutes           int    `json:"totalMinutes"`
	IdleMinutes            int    `json:"idleMinutes"`
	ActiveMinutes          int    `json:"activeMinutes"`
	SessionProductivity    int    `json:"sessionProductivity"`
	DailyTargetAchievement int    `json:"dailyTargetAchievement"`
	EfficiencyScore        int    `json:"efficiencyScore"`
	PerformanceRating      Rating `json:"performanceRating"`
}

// ComputeSessionMetrics derives productivity, target achievement and rating
// for one session.
func ComputeSessionMetrics(s models.Session) SessionMetrics {
	total, idle := s.Minutes()
	active := total - idle

	m := SessionMetrics{
		TotalMinutes:           total,
		IdleMinutes:            idle,
		ActiveMinutes:          active,
		SessionProductivity:    Percent(active, total),
		DailyTargetAchievement: Percent(total, ExpectedDailyMinutes),
		EfficiencyScore:        Percent(active, ExpectedDailyMinutes),
	}
	m.PerformanceRating = RatePerformance(m.SessionProductivity, m.DailyTargetAchievement)
	return m
}

// RatePerformance applies the rating rules top to bottom; the first match wins.
func RatePerformance(productivity, targetAchievement int) Rating {
	switch {
	case productivity >= 90 && targetAchievement >= 80:
		return RatingExcellent
	case productivity >= 80 && targetAchievement >= 70:
		return RatingGood
	case productivity >= 70 && targetAchievement >= 60:
		return RatingAverage
	case productivity >= 60 || targetAchievement >= 50:
		return RatingBelowAverage
	default:
		return RatingPoor
	}
}

// Percent returns part / whole * 100 rounded half up, or 0 when whole is not
// positive. Negative parts count as 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return roundDiv(max(part, 0)*100, whole)
}

// roundDiv divides two non-negative integers rounding half up. Integer
// arithmetic keeps exact halves such as 57.5 from landing below .5.
func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
