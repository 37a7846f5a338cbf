package services

import (
	"context"

	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/adilzhan-s/lostfound/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService is the platform's notification sink and inbox. It
// satisfies the NotificationSink interface consumed by the case and chat
// services.
type NotificationService struct {
	repo *repository.NotificationRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify persists a new unread notification for a user.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, message string, notifType models.NotificationType, relatedItem1, relatedItem2 string) error {
	return s.repo.CreateNotification(ctx, &models.Notification{
		UserID:         userID,
		Type:           notifType,
		Message:        message,
		RelatedItemID1: relatedItem1,
		RelatedItemID2: relatedItem2,
	})
}

// GetUserNotifications returns a user's inbox, newest first.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkAsRead flips one notification to read. Reading an already-read
// notification is a no-op; the flag never flips back.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	notif, err := s.repo.GetNotification(ctx, notifID, userID)
	if err != nil {
		return err
	}
	if notif.IsRead {
		return nil
	}
	return s.repo.MarkAsRead(ctx, notifID, userID)
}

// DeleteExpiredNotifications purges notifications past their TTL; called by
// the cleanup cron.
func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}
