// Package report renders dashboard data as plain-text tables for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/service"
)

// WriteWeekly prints the per-user summary of an overview followed by its top
// performers.
func WriteWeekly(w io.Writer, overview *service.Overview) error {
	var lines []string
	lines = append(lines, fmt.Sprintf("Week %s to %s", models.DateKey(overview.Week.Start), models.DateKey(overview.Week.End)))
	lines = append(lines, "")

	rows := make([][]string, 0, len(overview.Users)+1)
	for _, u := range overview.Users {
		rows = append(rows, []string{
			u.DisplayName,
			string(u.Role),
			strconv.Itoa(u.Summary.TotalSessions),
			FormatMinutes(u.Summary.TotalMinutes),
			FormatMinutes(u.Summary.ActiveMinutes),
			strconv.Itoa(u.Summary.ProductivityRate) + "%",
			strconv.Itoa(u.Summary.PendingCount),
		})
	}
	rows = append(rows, []string{
		"Total",
		"",
		strconv.Itoa(overview.Summary.TotalSessions),
		FormatMinutes(overview.Summary.TotalMinutes),
		FormatMinutes(overview.Summary.ActiveMinutes),
		strconv.Itoa(overview.Summary.ProductivityRate) + "%",
		strconv.Itoa(overview.Summary.PendingCount),
	})
	lines = append(lines, formatTable(
		[]string{"User", "Role", "Sessions", "Worked", "Active", "Productivity", "Pending"},
		rows,
		map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true},
	)...)

	lines = append(lines, "", "Top performers")
	if len(overview.TopPerformers) == 0 {
		lines = append(lines, "No sessions recorded.")
	} else {
		top := make([][]string, 0, len(overview.TopPerformers))
		for _, r := range overview.TopPerformers {
			top = append(top, []string{
				strconv.Itoa(r.Rank),
				r.DisplayName,
				strconv.Itoa(r.Summary.ProductivityRate) + "%",
				strconv.FormatFloat(r.TotalHours, 'f', 1, 64) + "h",
			})
		}
		lines = append(lines, formatTable(
			[]string{"#", "User", "Productivity", "Hours"},
			top,
			map[int]bool{0: true, 2: true, 3: true},
		)...)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatMinutes renders a minute count as "7h 05m".
func FormatMinutes(total int) string {
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}
