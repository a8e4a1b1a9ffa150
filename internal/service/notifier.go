package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/procurement/internal/metrics"
	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

// Notifier fans out workflow notifications. Emission is a best-effort side
// channel: the workflow operation's success is independent of delivery, so
// failures are logged and swallowed. Every notification targets either a
// single user or a role, never both.
type Notifier struct {
	notifications repository.NotificationRepository
	metrics       *metrics.Metrics
}

// NewNotifier creates a new notifier
func NewNotifier(notifications repository.NotificationRepository, collector *metrics.Metrics) *Notifier {
	return &Notifier{
		notifications: notifications,
		metrics:       collector,
	}
}

// NotifyUser emits a notification targeted at a single user
func (n *Notifier) NotifyUser(ctx context.Context, userID uuid.UUID, title, message string, linkType models.LinkType, linkID uuid.UUID) {
	n.emit(ctx, &models.Notification{
		ID:       uuid.New(),
		ToUserID: &userID,
		Title:    title,
		Message:  message,
		LinkType: linkType,
		LinkID:   linkID,
		Read:     false,
	})
}

// NotifyRole emits a notification broadcast to everyone holding a role
func (n *Notifier) NotifyRole(ctx context.Context, role models.UserRole, title, message string, linkType models.LinkType, linkID uuid.UUID) {
	n.emit(ctx, &models.Notification{
		ID:       uuid.New(),
		Role:     &role,
		Title:    title,
		Message:  message,
		LinkType: linkType,
		LinkID:   linkID,
		Read:     false,
	})
}

func (n *Notifier) emit(ctx context.Context, notification *models.Notification) {
	if err := n.notifications.Create(ctx, notification); err != nil {
		log.Warn().
			Err(err).
			Str("title", notification.Title).
			Str("link_id", notification.LinkID.String()).
			Msg("Failed to emit notification")
		return
	}

	n.metrics.IncrementCounter("notifications_emitted")
	log.Debug().
		Str("notification_id", notification.ID.String()).
		Str("title", notification.Title).
		Msg("Notification emitted")
}
