package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"

	"timesheet-dashboard/internal/models"
	"timesheet-dashboard/internal/repository"
)

type UserService struct {
	repo        repository.UserRepository
	baseAdminID string
	logger      *logrus.Entry
}

// NewUserService builds the service. baseAdminID names the configured
// bootstrap admin, who can never lose the admin role; it may be empty.
func NewUserService(repo repository.UserRepository, baseAdminID string, logger *logrus.Logger) *UserService {
	return &UserService{
		repo:        repo,
		baseAdminID: baseAdminID,
		logger:      logger.WithField("component", "user_service"),
	}
}

// CreateUserInput is the profile of a user added by an admin.
type CreateUserInput struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	ManagerID   *string     `json:"managerId"`
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return loadUser(ctx, s.repo, id)
}

// GetByTelegramChat returns the user linked to a Telegram chat.
func (s *UserService) GetByTelegramChat(ctx context.Context, chatID int64) (*models.User, error) {
	user, err := s.repo.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("loading user by chat: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no user linked to chat %d", ErrNotFound, chatID)
	}
	return user, nil
}

// CreateUser adds a user. Only admins may do so; the role defaults to employee.
func (s *UserService) CreateUser(ctx context.Context, actor *models.User, in CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create users", ErrForbidden)
	}

	user := &models.User{
		ID:          strings.TrimSpace(in.ID),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Role:        in.Role,
		ManagerID:   in.ManagerID,
	}
	if user.Role == "" {
		user.Role = models.RoleEmployee
	}
	if user.ManagerID != nil && *user.ManagerID == "" {
		user.ManagerID = nil
	}

	if _, err := mail.ParseAddress(user.Email); err != nil {
		return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, in.Email)
	}
	if !user.IsValid() {
		return nil, fmt.Errorf("%w: display name, email and a known role are required", ErrInvalidInput)
	}
	if user.ManagerID != nil {
		if err := s.checkManager(ctx, user.ID, *user.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"user_id":  user.ID,
		"role":     user.Role,
	}).Info("User created")

	return user, nil
}

// ListUsers returns every user. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can list users", ErrForbidden)
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Team returns the users the actor oversees.
func (s *UserService) Team(ctx context.Context, actor *models.User) ([]models.User, error) {
	users, err := visibleUsers(ctx, s.repo, actor)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AssignRole changes the role of a user. Admins cannot change their own role
// and the configured base admin cannot be demoted.
func (s *UserService) AssignRole(ctx context.Context, actor *models.User, userID string, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can assign roles", ErrForbidden)
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if actor.ID == userID {
		return nil, fmt.Errorf("%w: admins cannot change their own role", ErrForbidden)
	}
	if s.baseAdminID != "" && userID == s.baseAdminID && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: the configured base admin cannot be demoted", ErrForbidden)
	}

	if _, err := loadUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("updating role: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"user_id":  userID,
		"role":     role,
	}).Info("Role assigned")

	return loadUser(ctx, s.repo, userID)
}

// AssignManager sets the manager of a user, or clears it when managerID is nil.
func (s *UserService) AssignManager(ctx context.Context, actor *models.User, userID string, managerID *string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can assign managers", ErrForbidden)
	}
	if _, err := loadUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if managerID != nil && *managerID == "" {
		managerID = nil
	}
	if managerID != nil {
		if err := s.checkManager(ctx, userID, *managerID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateManager(ctx, userID, managerID); err != nil {
		return nil, fmt.Errorf("updating manager: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id":   actor.ID,
		"user_id":    userID,
		"manager_id": managerID,
	}).Info("Manager assigned")

	return loadUser(ctx, s.repo, userID)
}

// LinkTelegram attaches a Telegram chat to a user so the bot can reach them.
func (s *UserService) LinkTelegram(ctx context.Context, userID string, chatID int64) error {
	if err := s.repo.LinkTelegram(ctx, userID, chatID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return fmt.Errorf("linking telegram chat: %w", err)
	}
	return nil
}

// RoleCounts returns how many users hold each role.
func (s *UserService) RoleCounts(ctx context.Context) (map[models.Role]int, error) {
	return s.repo.CountByRole(ctx)
}

// InitializeAdmin makes sure the configured bootstrap user exists and is an
// admin. An empty id is a no-op.
func (s *UserService) InitializeAdmin(ctx context.Context, id, email string) error {
	if id == "" {
		return nil
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.IsAdmin() {
			return nil
		}
		s.logger.WithField("user_id", id).Info("Promoting bootstrap user to admin")
		return s.repo.UpdateRole(ctx, id, models.RoleAdmin)
	}

	s.logger.WithField("user_id", id).Info("Creating bootstrap admin")
	return s.repo.Create(ctx, &models.User{
		ID:          id,
		DisplayName: "Administrator",
		Email:       email,
		Role:        models.RoleAdmin,
	})
}

func (s *UserService) checkManager(ctx context.Context, userID, managerID string) error {
	if managerID == userID {
		return fmt.Errorf("%w: a user cannot manage themselves", ErrInvalidInput)
	}
	manager, err := s.repo.GetByID(ctx, managerID)
	if err != nil {
		return fmt.Errorf("loading manager: %w", err)
	}
	if manager == nil {
		return fmt.Errorf("%w: manager %s does not exist", ErrInvalidInput, managerID)
	}
	if !manager.IsManager() {
		return fmt.Errorf("%w: user %s is not a manager", ErrInvalidInput, managerID)
	}
	return nil
}
