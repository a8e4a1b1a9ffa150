package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/procurement/internal/models"
)

// NotificationRepository provides access to workflow notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListUnread(ctx context.Context, userID, role string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return errors.Wrap(err, "failed to create notification")
	}
	return nil
}

func (r *notificationRepository) ListUnread(ctx context.Context, userID, role string) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("read = ?", false)
	if userID != "" {
		query = query.Where("to_user_id = ?", userID)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	return notifications, nil
}

// MarkRead acknowledges a notification. Acknowledging an unknown id is a
// no-op, mirroring the update semantics of the store.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return errors.Wrap(err, "failed to mark notification as read")
	}
	return nil
}
