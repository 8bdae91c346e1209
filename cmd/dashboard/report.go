package main

import (
	"time"

	"github.com/spf13/cobra"

	"timesheet-dashboard/internal/calendar"
	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/report"
)

var (
	reportWeek      string
	reportManager   string
	reportWeekStart string
	reportLimit     int
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the weekly team summary and top performers",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}

	cmd.Flags().StringVar(&reportWeek, "week", "", "any day of the week to report, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&reportManager, "manager", "", "limit the report to the direct reports of this manager")
	cmd.Flags().StringVar(&reportWeekStart, "week-start", "", "first day of the week: sunday or monday (default: WEEK_STARTS_ON)")
	cmd.Flags().IntVar(&reportLimit, "limit", 0, "number of top performers (default: TOP_PERFORMERS_LIMIT)")

	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	weekStartsOn, err := calendar.ParseWeekStart(reportWeekStart, a.cfg.WeekStartsOn)
	if err != nil {
		return err
	}
	anchor, err := calendar.ParseDate(reportWeek, time.UTC, time.Now().UTC())
	if err != nil {
		return err
	}
	limit := reportLimit
	if limit <= 0 {
		limit = a.cfg.TopPerformersLimit
	}

	// Without --manager the report covers everyone, as an admin would see it.
	actor := &models.User{ID: "cli", DisplayName: "CLI", Role: models.RoleAdmin}
	if reportManager != "" {
		actor, err = a.userService.GetUser(ctx, reportManager)
		if err != nil {
			return err
		}
	}

	overview, err := a.dashboardService.Overview(ctx, actor, anchor, weekStartsOn, limit)
	if err != nil {
		return err
	}

	return report.WriteWeekly(cmd.OutOrStdout(), overview)
}
