package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/testutil"
)

func TestUserService_CreateUser(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	user, err := svc.CreateUser(f.ctx, f.admin, CreateUserInput{
		DisplayName: " Carol ",
		Email:       "Carol@Example.com",
		ManagerID:   &f.manager.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Carol", user.DisplayName)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Equal(t, models.RoleEmployee, user.Role)

	_, err = svc.CreateUser(f.ctx, f.manager, CreateUserInput{DisplayName: "Dan", Email: "dan@example.com"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_CreateUser_InvalidInput(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	cases := map[string]CreateUserInput{
		"bad email":        {DisplayName: "Dan", Email: "not-an-email"},
		"missing name":     {Email: "dan@example.com"},
		"unknown role":     {DisplayName: "Dan", Email: "dan@example.com", Role: "owner"},
		"employee manager": {DisplayName: "Dan", Email: "dan@example.com", ManagerID: &f.bob.ID},
		"duplicate email":  {DisplayName: "Dan", Email: f.alice.Email},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateUser(f.ctx, f.admin, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUserService_AssignRole(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	updated, err := svc.AssignRole(f.ctx, f.admin, f.bob.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, updated.Role)

	_, err = svc.AssignRole(f.ctx, f.admin, f.admin.ID, models.RoleEmployee)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AssignRole(f.ctx, f.manager, f.bob.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AssignRole(f.ctx, f.admin, f.bob.ID, "owner")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AssignRole(f.ctx, f.admin, "missing", models.RoleManager)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_AssignRole_BaseAdminProtected(t *testing.T) {
	f := newFixture(t)
	second := testutil.NewTestUser("Ops", testutil.WithRole(models.RoleAdmin))
	require.NoError(t, f.users.Create(f.ctx, second))
	svc := NewUserService(f.users, f.admin.ID, testutil.NewLogger())

	_, err := svc.AssignRole(f.ctx, second, f.admin.ID, models.RoleEmployee)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "base admin")

	stored, err := f.users.GetByID(f.ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	updated, err := svc.AssignRole(f.ctx, second, f.admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	demoted, err := f.userService().AssignRole(f.ctx, f.admin, second.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, demoted.Role)
}

func TestUserService_AssignManager(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	updated, err := svc.AssignManager(f.ctx, f.admin, f.outsider.ID, &f.manager.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, f.manager.ID, *updated.ManagerID)

	_, err = svc.AssignManager(f.ctx, f.admin, f.manager.ID, &f.manager.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AssignManager(f.ctx, f.admin, f.outsider.ID, &f.bob.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AssignManager(f.ctx, f.manager, f.outsider.ID, &f.manager.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cleared, err := svc.AssignManager(f.ctx, f.admin, f.outsider.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.ManagerID)
}

func TestUserService_Team(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	everyone, err := svc.Team(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, everyone, 5)

	team, err := svc.Team(f.ctx, f.manager)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, "Alice", team[0].DisplayName)
	assert.Equal(t, "Bob", team[1].DisplayName)

	_, err = svc.Team(f.ctx, f.alice)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListUsers(f.ctx, f.manager)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_LookupAndLink(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	byChat, err := svc.GetByTelegramChat(f.ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, byChat.ID)

	_, err = svc.GetByTelegramChat(f.ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.LinkTelegram(f.ctx, f.bob.ID, 102))
	byChat, err = svc.GetByTelegramChat(f.ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, byChat.ID)

	assert.ErrorIs(t, svc.LinkTelegram(f.ctx, "missing", 103), ErrNotFound)

	_, err = svc.GetUser(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_InitializeAdmin(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	require.NoError(t, svc.InitializeAdmin(f.ctx, "", "ignored@example.com"))

	require.NoError(t, svc.InitializeAdmin(f.ctx, "bootstrap", "boot@example.com"))
	created, err := svc.GetUser(f.ctx, "bootstrap")
	require.NoError(t, err)
	assert.True(t, created.IsAdmin())

	require.NoError(t, svc.InitializeAdmin(f.ctx, f.bob.ID, "unused@example.com"))
	promoted, err := svc.GetUser(f.ctx, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	counts, err := svc.RoleCounts(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[models.RoleAdmin])
}
