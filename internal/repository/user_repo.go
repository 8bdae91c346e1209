package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"timesheet-dashboard/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByManager(ctx context.Context, managerID string) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdateManager(ctx context.Context, id string, managerID *string) error
	LinkTelegram(ctx context.Context, id string, chatID int64) error
	CountByRole(ctx context.Context) (map[models.Role]int, error)
}

type GormUserRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormUserRepository(db *gorm.DB, logger *logrus.Logger) (*GormUserRepository, error) {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate users table")
		return nil, err
	}

	logger.Info("User repository initialized")

	return &GormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleEmployee
	}

	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? OR email = ?", user.ID, user.Email).
		Count(&count)
	if result.Error != nil {
		return result.Error
	}
	if count > 0 {
		r.logger.WithField("email", user.Email).Warn("User already exists")
		return ErrUserExists
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create user")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":   user.ID,
		"role": user.Role,
	}).Info("User created")

	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get user by ID")
		return nil, result.Error
	}

	return &user, nil
}

func (r *GormUserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&user)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get user by chat ID")
		return nil, result.Error
	}

	return &user, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("display_name ASC").Order("id ASC").Find(&users).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list users")
		return nil, err
	}
	return users, nil
}

// ListByManager returns the direct reports of a manager.
func (r *GormUserRepository) ListByManager(ctx context.Context, managerID string) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("display_name ASC").
		Order("id ASC").
		Find(&users)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list team")
		return nil, result.Error
	}

	return users, nil
}

func (r *GormUserRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

// UpdateManager sets or, with a nil managerID, clears the manager of a user.
func (r *GormUserRepository) UpdateManager(ctx context.Context, id string, managerID *string) error {
	return r.updateColumn(ctx, id, "manager_id", managerID)
}

func (r *GormUserRepository) LinkTelegram(ctx context.Context, id string, chatID int64) error {
	return r.updateColumn(ctx, id, "telegram_chat_id", chatID)
}

// CountByRole returns the number of users holding each role.
func (r *GormUserRepository) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	var rows []struct {
		Role  models.Role
		Count int
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to count users by role")
		return nil, result.Error
	}

	counts := make(map[models.Role]int, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *GormUserRepository) updateColumn(ctx context.Context, id, column string, value any) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update(column, value)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("column", column).Error("Failed to update user")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"column": column,
	}).Info("User updated")

	return nil
}
