package productivity

import (
	"time"

	"timesheet-dashboard/internal/calendar"
	"timesheet-dashboard/internal/models"
)

// MonthlyProgress compares the minutes worked in a month with the expected
// minutes of its working days.
type MonthlyProgress struct {
	Month             string `json:"month"`
	WorkingDays       int    `json:"workingDays"`
	ExpectedMinutes   int    `json:"expectedMinutes"`
	WorkedMinutes     int    `json:"workedMinutes"`
	ActiveMinutes     int    `json:"activeMinutes"`
	OvertimeMinutes   int    `json:"overtimeMinutes"`
	DeficitMinutes    int    `json:"deficitMinutes"`
	TargetAchievement int    `json:"targetAchievement"`
}

// ComputeMonthlyProgress sums the sessions dated inside the month of
// anchorMonth against WorkingDaysInMonth * ExpectedDailyMinutes.
func ComputeMonthlyProgress(anchorMonth time.Time, sessions []models.Session) MonthlyProgress {
	month := calendar.MonthRange(anchorMonth)

	p := MonthlyProgress{
		Month:       month.Start.Format(calendar.MonthLayout),
		WorkingDays: calendar.WorkingDaysInMonth(anchorMonth),
	}
	p.ExpectedMinutes = p.WorkingDays * ExpectedDailyMinutes

	for _, s := range sessions {
		if !month.Contains(s.Date) {
			continue
		}
		total, idle := s.Minutes()
		p.WorkedMinutes += total
		p.ActiveMinutes += total - idle
	}

	diff := p.WorkedMinutes - p.ExpectedMinutes
	if diff > 0 {
		p.OvertimeMinutes = diff
	} else {
		p.DeficitMinutes = -diff
	}
	p.TargetAchievement = Percent(p.WorkedMinutes, p.ExpectedMinutes)
	return p
}
