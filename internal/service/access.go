package service

import (
	"context"
	"fmt"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/repository"
)

// canView reports whether actor may read the records of owner: their own,
// those of their reports, or anyone's for an admin.
func canView(actor, owner *models.User) bool {
	return actor.ID == owner.ID || actor.Manages(owner)
}

// canReview reports whether actor may approve or reject the work of owner.
// Nobody reviews their own sessions.
func canReview(actor, owner *models.User) bool {
	return actor.ID != owner.ID && actor.Manages(owner)
}

// visibleUsers returns the users whose work actor oversees: everybody for an
// admin, the direct reports for a manager.
func visibleUsers(ctx context.Context, users repository.UserRepository, actor *models.User) ([]models.User, error) {
	switch {
	case actor.IsAdmin():
		return users.List(ctx)
	case actor.IsManager():
		return users.ListByManager(ctx, actor.ID)
	default:
		return nil, fmt.Errorf("%w: only managers and admins oversee a team", ErrForbidden)
	}
}

func loadUser(ctx context.Context, users repository.UserRepository, id string) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return user, nil
}

func userIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
