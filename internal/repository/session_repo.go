package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"timesheet-dashboard/internal/models"
)

// ErrSessionNotFound is returned by updates that match no session.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByUsersInRange(ctx context.Context, userIDs []string, from, to time.Time) ([]models.Session, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]models.Session, error)
	ListByStatus(ctx context.Context, userIDs []string, status models.SessionStatus) ([]models.Session, error)
	UpdateReview(ctx context.Context, id string, status models.SessionStatus, comment string) error
	UpdateReviewInRange(ctx context.Context, userID string, from, to time.Time, status models.SessionStatus, comment string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type GormSessionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSessionRepository(db *gorm.DB, logger *logrus.Logger) (*GormSessionRepository, error) {
	if err := db.AutoMigrate(&models.Session{}, &models.Screenshot{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate sessions tables")
		return nil, err
	}

	logger.Info("Session repository initialized")

	return &GormSessionRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if !session.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id": session.UserID,
			"date":    session.DateKey(),
		}).Warn("Invalid session data")
		return errors.New("invalid session data")
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = models.StatusSubmitted
	}
	session.Date = models.StorageDate(session.Date)

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create session")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":            session.ID,
		"user_id":       session.UserID,
		"date":          session.DateKey(),
		"total_minutes": session.TotalMinutes,
	}).Info("Session created")

	return nil
}

func (r *GormSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	result := r.db.WithContext(ctx).Scopes(withScreenshots).First(&session, "id = ?", id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Session not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get session by ID")
		return nil, result.Error
	}

	return &session, nil
}

// ListByUsersInRange returns the sessions of the given users dated within
// [from, to], both days inclusive.
func (r *GormSessionRepository) ListByUsersInRange(ctx context.Context, userIDs []string, from, to time.Time) ([]models.Session, error) {
	if len(userIDs) == 0 {
		return []models.Session{}, nil
	}

	var sessions []models.Session
	result := r.inRange(ctx, from, to).
		Scopes(chronological, withScreenshots).
		Where("user_id IN ?", userIDs).
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list sessions by users and range")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"users": len(userIDs),
		"from":  models.DateKey(from),
		"to":    models.DateKey(to),
		"count": len(sessions),
	}).Debug("Retrieved sessions by users and range")

	return sessions, nil
}

// ListInRange returns every session dated within [from, to].
func (r *GormSessionRepository) ListInRange(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.inRange(ctx, from, to).Scopes(chronological, withScreenshots).Find(&sessions).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list sessions by range")
		return nil, err
	}
	return sessions, nil
}

func (r *GormSessionRepository) ListByStatus(ctx context.Context, userIDs []string, status models.SessionStatus) ([]models.Session, error) {
	if len(userIDs) == 0 {
		return []models.Session{}, nil
	}

	var sessions []models.Session
	result := r.db.WithContext(ctx).
		Scopes(chronological, withScreenshots).
		Where("user_id IN ? AND status = ?", userIDs, status).
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list sessions by status")
		return nil, result.Error
	}

	return sessions, nil
}

// UpdateReview stores a manager decision on one session.
func (r *GormSessionRepository) UpdateReview(ctx context.Context, id string, status models.SessionStatus, comment string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          status,
			"manager_comment": comment,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update session review")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Session not found for review")
		return ErrSessionNotFound
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"status": status,
	}).Info("Session reviewed")

	return nil
}

// UpdateReviewInRange applies a decision to the still submitted sessions of
// one user within [from, to] and returns how many were changed.
func (r *GormSessionRepository) UpdateReviewInRange(ctx context.Context, userID string, from, to time.Time, status models.SessionStatus, comment string) (int64, error) {
	result := r.inRange(ctx, from, to).
		Model(&models.Session{}).
		Where("user_id = ? AND status = ?", userID, models.StatusSubmitted).
		Updates(map[string]any{
			"status":          status,
			"manager_comment": comment,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to review sessions in range")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"from":    models.DateKey(from),
		"to":      models.DateKey(to),
		"status":  status,
		"updated": result.RowsAffected,
	}).Info("Timesheet reviewed")

	return result.RowsAffected, nil
}

func (r *GormSessionRepository) DeleteByID(ctx context.Context, id string) error {
	r.logger.WithField("id", id).Info("Deleting session by ID")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.Screenshot{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Session{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).Warn("Failed to delete session")
		return err
	}

	r.logger.WithField("id", id).Info("Session deleted")
	return nil
}

// inRange scopes a query to sessions dated within [from, to]. Dates are
// stored as UTC midnight, so the upper bound is the start of the following day.
func (r *GormSessionRepository) inRange(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", models.StorageDate(from), models.StorageDate(to).AddDate(0, 0, 1))
}

func chronological(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC").Order("clock_in ASC")
}

func withScreenshots(db *gorm.DB) *gorm.DB {
	return db.Preload("Screenshots", orderScreenshots)
}

func orderScreenshots(db *gorm.DB) *gorm.DB {
	return db.Order("captured_at ASC")
}
