package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/adilzhan-s/lostfound/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notificationTTL bounds how long an inbox entry is kept before the cleanup
// job purges it.
const notificationTTL = 30 * 24 * time.Hour

// NotificationRepository handles database operations for user notifications.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// CreateNotification inserts a new notification, unread.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) error {
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(notificationTTL)
	notif.IsRead = false

	_, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetUserNotifications returns all notifications for a user, newest first.
func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// GetNotification fetches one notification scoped to its owner.
func (r *NotificationRepository) GetNotification(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	var notif models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&notif)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("notification %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification: %w", err)
	}
	return &notif, nil
}

// MarkAsRead flips a notification to read. The flip is one-way: updating an
// already-read notification is a silent no-op.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// DeleteExpiredNotifications removes notifications past their TTL.
func (r *NotificationRepository) DeleteExpiredNotifications(ctx context.Context) error {
	filter := bson.M{"expires_at": bson.M{"$lte": time.Now()}}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	logger.Log.Infof("Deleted %d expired notifications", result.DeletedCount)
	return nil
}
