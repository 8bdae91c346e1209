package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/testutil"
)

func newUserRepo(t *testing.T) *GormUserRepository {
	t.Helper()
	repo, err := NewGormUserRepository(testutil.NewTestDB(t), testutil.NewLogger())
	require.NoError(t, err)
	return repo
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Alice", testutil.WithTelegramChat(42))
	user.ID = ""
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Alice", byID.DisplayName)
	assert.Equal(t, models.RoleEmployee, byID.Role)

	byChat, err := repo.GetByTelegramChatID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, byChat)
	assert.Equal(t, user.ID, byChat.ID)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Alice")
	require.NoError(t, repo.Create(ctx, user))

	dup := testutil.NewTestUser("Alice again")
	dup.Email = user.Email
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrUserExists)
}

func TestUserRepo_ListByManager(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	manager := testutil.NewTestUser("Mona", testutil.WithRole(models.RoleManager))
	require.NoError(t, repo.Create(ctx, manager))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Zoe", testutil.WithManager(manager.ID))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Adam", testutil.WithManager(manager.ID))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Other")))

	team, err := repo.ListByManager(ctx, manager.ID)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, "Adam", team[0].DisplayName)
	assert.Equal(t, "Zoe", team[1].DisplayName)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUserRepo_Updates(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	manager := testutil.NewTestUser("Mona", testutil.WithRole(models.RoleManager))
	user := testutil.NewTestUser("Eve")
	require.NoError(t, repo.Create(ctx, manager))
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateRole(ctx, user.ID, models.RoleManager))
	require.NoError(t, repo.UpdateManager(ctx, user.ID, &manager.ID))
	require.NoError(t, repo.LinkTelegram(ctx, user.ID, 7))

	fetched, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, fetched.Role)
	require.NotNil(t, fetched.ManagerID)
	assert.Equal(t, manager.ID, *fetched.ManagerID)
	require.NotNil(t, fetched.TelegramChatID)
	assert.Equal(t, int64(7), *fetched.TelegramChatID)

	require.NoError(t, repo.UpdateManager(ctx, user.ID, nil))
	fetched, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.ManagerID)

	assert.ErrorIs(t, repo.UpdateRole(ctx, "missing", models.RoleAdmin), ErrUserNotFound)
}

func TestUserRepo_DeleteAndCount(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	admin := testutil.NewTestUser("Root", testutil.WithRole(models.RoleAdmin))
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("B")))

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.RoleAdmin])
	assert.Equal(t, 2, counts[models.RoleEmployee])
	assert.Equal(t, 0, counts[models.RoleManager])
}
