package service

import (
	"context"

	"gorm.io/gorm"

	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates the notification inbox service
func NewNotificationService(db *gorm.DB) NotificationService {
	return &notificationService{repo: repository.NewNotificationRepository(db)}
}

// ListUnread returns unread notifications, optionally narrowed to a user's
// inbox or a role broadcast channel, newest first.
func (s *notificationService) ListUnread(ctx context.Context, userID, role string) ([]models.Notification, error) {
	if userID != "" {
		if _, err := parseID(userID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListUnread(ctx, userID, role)
}

// MarkRead acknowledges a notification. Acknowledging an already-read or
// unknown notification succeeds; the operation is idempotent.
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	notificationID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, notificationID)
}
