package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message belongs to exactly one case, identified by the ordered pair
// (LostItemID, FoundItemID). ReceiverID is derived from the case's owners at
// send time, never supplied by the sender. Immutable once stored.
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"senderID"`
	ReceiverID  primitive.ObjectID `bson:"receiver_id" json:"receiverID"`
	LostItemID  string             `bson:"lost_item_id" json:"lostItemID"`
	FoundItemID string             `bson:"found_item_id" json:"foundItemID"`
	Content     string             `bson:"content" json:"content"`
	IsImage     bool               `bson:"is_image,omitempty" json:"isImage,omitempty"`
	SentTime    time.Time          `bson:"sent_time" json:"sentTime"`
}

// ChatSummary is one row of a user's live-case chat list: the case pair, the
// latest message and the other participant.
type ChatSummary struct {
	LostItemID      string             `json:"lostItemID"`
	LostItemName    string             `json:"lostItemName"`
	FoundItemID     string             `json:"foundItemID"`
	FoundItemName   string             `json:"foundItemName"`
	OtherUserID     primitive.ObjectID `json:"otherUserID"`
	OtherUsername   string             `json:"otherUsername"`
	LastMessage     string             `json:"lastMessage"`
	LastMessageTime time.Time          `json:"lastMessageTime"`
	LostItemStatus  ItemStatus         `json:"lostItemStatus"`
}
