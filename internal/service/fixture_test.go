package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/repository"
	"timesheet-dashboard/internal/testutil"
)

// fixedNow is a Wednesday; with Sunday starts its week is 2024-01-07..13.
var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fixture struct {
	ctx      context.Context
	users    *repository.GormUserRepository
	sessions *repository.GormSessionRepository
	notifier *fakeNotifier

	admin    *models.User
	manager  *models.User
	alice    *models.User
	bob      *models.User
	outsider *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := testutil.NewLogger()

	users, err := repository.NewGormUserRepository(db, logger)
	require.NoError(t, err)
	sessions, err := repository.NewGormSessionRepository(db, logger)
	require.NoError(t, err)

	f := &fixture{
		ctx:      context.Background(),
		users:    users,
		sessions: sessions,
		notifier: &fakeNotifier{},
	}

	f.admin = testutil.NewTestUser("Root", testutil.WithRole(models.RoleAdmin))
	f.manager = testutil.NewTestUser("Mona", testutil.WithRole(models.RoleManager), testutil.WithTelegramChat(100))
	f.alice = testutil.NewTestUser("Alice", testutil.WithManager(f.manager.ID), testutil.WithTelegramChat(101))
	f.bob = testutil.NewTestUser("Bob", testutil.WithManager(f.manager.ID))
	f.outsider = testutil.NewTestUser("Eve")

	for _, u := range []*models.User{f.admin, f.manager, f.alice, f.bob, f.outsider} {
		require.NoError(t, users.Create(f.ctx, u))
	}
	return f
}

func (f *fixture) timesheetService() *TimesheetService {
	svc := NewTimesheetService(f.sessions, f.users, f.notifier, testutil.NewLogger())
	svc.clock = func() time.Time { return fixedNow }
	return svc
}

func (f *fixture) dashboardService() *DashboardService {
	svc := NewDashboardService(f.sessions, f.users, testutil.NewLogger())
	svc.clock = func() time.Time { return fixedNow }
	return svc
}

func (f *fixture) userService() *UserService {
	return NewUserService(f.users, "", testutil.NewLogger())
}

func (f *fixture) addSession(t *testing.T, user *models.User, date time.Time, total int, opts ...testutil.SessionOption) *models.Session {
	t.Helper()
	s := testutil.NewTestSession(user.ID, date, total, opts...)
	require.NoError(t, f.sessions.Create(f.ctx, s))
	return s
}

var errDeliveryFailed = errors.New("delivery failed")
