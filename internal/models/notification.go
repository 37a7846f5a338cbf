package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what produced a notification.
type NotificationType string

const (
	NotificationGeneral    NotificationType = "General"
	NotificationMatch      NotificationType = "Match"
	NotificationNewMessage NotificationType = "NewMessage"
)

// Notification is a per-user inbox entry. IsRead flips false to true exactly
// once and never reverses.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userID"`
	Type           NotificationType   `bson:"type" json:"type"`
	Message        string             `bson:"message" json:"message"`
	RelatedItemID1 string             `bson:"related_item_id_1,omitempty" json:"relatedItemID1,omitempty"`
	RelatedItemID2 string             `bson:"related_item_id_2,omitempty" json:"relatedItemID2,omitempty"`
	IsRead         bool               `bson:"is_read" json:"isRead"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	ExpiresAt      time.Time          `bson:"expires_at" json:"expiresAt"`
}
