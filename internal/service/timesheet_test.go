package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/productivity"
	"timesheet-dashboard/internal/testutil"
)

func TestTimesheetService_RecordSession(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()

	clockIn := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	session, err := svc.RecordSession(f.ctx, f.alice, RecordSessionInput{
		ClockIn:     clockIn,
		ClockOut:    clockIn.Add(7*time.Hour + 30*time.Minute),
		IdleMinutes: 50,
		Screenshots: []ScreenshotInput{{ImageURL: "https://cdn.example.com/1.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, session.UserID)
	assert.Equal(t, "2024-01-09", session.DateKey())
	assert.Equal(t, 450, session.TotalMinutes)
	assert.Equal(t, models.StatusSubmitted, session.Status)

	stored, err := f.sessions.GetByID(f.ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, stored.Screenshots, 1)
	assert.Equal(t, clockIn.Unix(), stored.Screenshots[0].CapturedAt.Unix())
}

func TestTimesheetService_RecordSession_InvalidInput(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()
	clockIn := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	negative := -5

	cases := map[string]RecordSessionInput{
		"open session":      {ClockIn: clockIn},
		"reversed clock":    {ClockIn: clockIn, ClockOut: clockIn.Add(-time.Hour)},
		"idle above total":  {ClockIn: clockIn, ClockOut: clockIn.Add(time.Hour), IdleMinutes: 61},
		"negative total":    {ClockIn: clockIn, ClockOut: clockIn.Add(time.Hour), TotalMinutes: &negative},
		"bad date":          {ClockIn: clockIn, ClockOut: clockIn.Add(time.Hour), Date: "09/01/2024"},
		"screenshot no url": {ClockIn: clockIn, ClockOut: clockIn.Add(time.Hour), Screenshots: []ScreenshotInput{{}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RecordSession(f.ctx, f.alice, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTimesheetService_WeeklyTimesheet(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()

	first := f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450, testutil.WithIdle(50))
	f.addSession(t, f.alice, testutil.Day(2024, 1, 10), 480)
	f.addSession(t, f.alice, testutil.Day(2024, 1, 14), 480) // next week
	f.addSession(t, f.bob, testutil.Day(2024, 1, 8), 480)

	sheet, err := svc.WeeklyTimesheet(f.ctx, f.manager, f.alice.ID, testutil.Day(2024, 1, 10), time.Sunday)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-07", models.DateKey(sheet.Week.Start))
	assert.Equal(t, "2024-01-13", models.DateKey(sheet.Week.End))
	assert.Equal(t, "sunday", sheet.WeekStartsOn)
	assert.True(t, sheet.IsCurrentWeek)
	assert.False(t, sheet.CanAdvance)
	assert.Equal(t, "2023-12-31", sheet.PreviousWeek)
	assert.Empty(t, sheet.NextWeek)

	require.Len(t, sheet.Days, 7)
	assert.Len(t, sheet.Days[1].Sessions, 1)
	assert.Equal(t, 450, sheet.Days[1].TotalMinutes)
	assert.True(t, sheet.Days[3].IsToday)

	assert.Equal(t, 2, sheet.Summary.TotalSessions)
	assert.Equal(t, 930, sheet.Summary.TotalMinutes)
	assert.Equal(t, 2, sheet.Summary.PendingCount)

	require.Contains(t, sheet.Metrics, first.ID)
	assert.Equal(t, productivity.RatingGood, sheet.Metrics[first.ID].PerformanceRating)
}

func TestTimesheetService_WeeklyTimesheet_PastWeekCanAdvance(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()

	sheet, err := svc.WeeklyTimesheet(f.ctx, f.alice, f.alice.ID, testutil.Day(2024, 1, 3), time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", models.DateKey(sheet.Week.Start))
	assert.False(t, sheet.IsCurrentWeek)
	assert.True(t, sheet.CanAdvance)
	assert.Equal(t, "2024-01-08", sheet.NextWeek)
	assert.Empty(t, sheet.Metrics)
	assert.Zero(t, sheet.Summary.TotalSessions)
}

func TestTimesheetService_WeeklyTimesheet_Access(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()
	anchor := testutil.Day(2024, 1, 10)

	_, err := svc.WeeklyTimesheet(f.ctx, f.bob, f.alice.ID, anchor, time.Sunday)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.WeeklyTimesheet(f.ctx, f.manager, f.outsider.ID, anchor, time.Sunday)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.WeeklyTimesheet(f.ctx, f.admin, f.outsider.ID, anchor, time.Sunday)
	assert.NoError(t, err)

	_, err = svc.WeeklyTimesheet(f.ctx, f.admin, "missing", anchor, time.Sunday)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimesheetService_GetSession(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()
	session := f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450, testutil.WithIdle(50))

	detail, err := svc.GetSession(f.ctx, f.alice, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", detail.OwnerName)
	assert.Equal(t, 400, detail.Metrics.ActiveMinutes)
	assert.Equal(t, 89, detail.Metrics.SessionProductivity)

	_, err = svc.GetSession(f.ctx, f.bob, session.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetSession(f.ctx, f.alice, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimesheetService_Review(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()
	session := f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450)

	reviewed, err := svc.Review(f.ctx, f.manager, session.ID, models.StatusApproved, " nice ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, reviewed.Status)
	assert.Equal(t, "nice", reviewed.ManagerComment)

	stored, err := f.sessions.GetByID(f.ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, int64(101), f.notifier.sent[0].chatID)
	assert.Contains(t, f.notifier.sent[0].text, "2024-01-08")
	assert.Contains(t, f.notifier.sent[0].text, "approved: nice")
}

func TestTimesheetService_Review_Rejections(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()
	session := f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450)
	own := f.addSession(t, f.manager, testutil.Day(2024, 1, 8), 450)

	_, err := svc.Review(f.ctx, f.manager, session.ID, models.StatusSubmitted, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Review(f.ctx, f.alice, session.ID, models.StatusApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Review(f.ctx, f.manager, own.ID, models.StatusApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Review(f.ctx, f.manager, "missing", models.StatusApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.notifier.sent)
}

func TestTimesheetService_Review_NotificationFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errDeliveryFailed
	svc := f.timesheetService()
	session := f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450)

	reviewed, err := svc.Review(f.ctx, f.admin, session.ID, models.StatusDisapproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisapproved, reviewed.Status)
}

func TestTimesheetService_ReviewWeek(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()

	f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450)
	f.addSession(t, f.alice, testutil.Day(2024, 1, 9), 450)
	done := f.addSession(t, f.alice, testutil.Day(2024, 1, 10), 450, testutil.WithStatus(models.StatusDisapproved))
	f.addSession(t, f.alice, testutil.Day(2024, 1, 15), 450)

	result, err := svc.ReviewWeek(f.ctx, f.manager, f.alice.ID, testutil.Day(2024, 1, 12), time.Sunday, models.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Updated)
	assert.Equal(t, "2024-01-07", models.DateKey(result.Week.Start))

	stored, err := f.sessions.GetByID(f.ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisapproved, stored.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].text, "2024-01-07 to 2024-01-13")

	again, err := svc.ReviewWeek(f.ctx, f.manager, f.alice.ID, testutil.Day(2024, 1, 12), time.Sunday, models.StatusApproved, "")
	require.NoError(t, err)
	assert.Zero(t, again.Updated)
	assert.Len(t, f.notifier.sent, 1)

	_, err = svc.ReviewWeek(f.ctx, f.bob, f.alice.ID, testutil.Day(2024, 1, 12), time.Sunday, models.StatusApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTimesheetService_Pending(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()

	f.addSession(t, f.bob, testutil.Day(2024, 1, 9), 300)
	f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450)
	f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 100, testutil.WithStatus(models.StatusApproved))
	f.addSession(t, f.outsider, testutil.Day(2024, 1, 8), 450)
	f.addSession(t, f.manager, testutil.Day(2024, 1, 8), 450)

	pending, err := svc.Pending(f.ctx, f.manager)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Alice", pending[0].OwnerName)
	assert.Equal(t, "Bob", pending[1].OwnerName)

	all, err := svc.Pending(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = svc.Pending(f.ctx, f.alice)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTimesheetService_DeleteSession(t *testing.T) {
	f := newFixture(t)
	svc := f.timesheetService()
	submitted := f.addSession(t, f.alice, testutil.Day(2024, 1, 8), 450, testutil.WithScreenshots("https://cdn.example.com/a.png"))
	approved := f.addSession(t, f.alice, testutil.Day(2024, 1, 9), 450, testutil.WithStatus(models.StatusApproved))

	assert.ErrorIs(t, svc.DeleteSession(f.ctx, f.manager, submitted.ID), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteSession(f.ctx, f.alice, approved.ID), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteSession(f.ctx, f.alice, "missing"), ErrNotFound)

	require.NoError(t, svc.DeleteSession(f.ctx, f.alice, submitted.ID))
	stored, err := f.sessions.GetByID(f.ctx, submitted.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	require.NoError(t, svc.DeleteSession(f.ctx, f.admin, approved.ID))
	assert.ErrorIs(t, svc.DeleteSession(f.ctx, f.admin, approved.ID), ErrNotFound)
}
