package services

import (
	"context"
	"fmt"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatService carries the per-case message thread between the two owners of a
// linked pair.
type ChatService struct {
	messages MessageStore
	items    ItemStore
	users    UserStore
	sink     NotificationSink
}

// NewChatService creates a new instance of ChatService.
func NewChatService(messages MessageStore, items ItemStore, users UserStore, sink NotificationSink) *ChatService {
	return &ChatService{
		messages: messages,
		items:    items,
		users:    users,
		sink:     sink,
	}
}

// SendMessage stores one message in a case thread. The receiver is always
// derived from the case's owners, never taken from the caller, and the sender
// must own one of the two items.
func (s *ChatService) SendMessage(ctx context.Context, senderID primitive.ObjectID, lostItemID, foundItemID, content string, isImage bool) (*models.Message, error) {
	lost, err := s.items.GetItem(ctx, lostItemID)
	if err != nil {
		return nil, err
	}
	found, err := s.items.GetItem(ctx, foundItemID)
	if err != nil {
		return nil, err
	}

	if content == "" {
		return nil, fmt.Errorf("message needs text or an image: %w", apperrors.ErrInvalidArgument)
	}

	var receiverID primitive.ObjectID
	switch senderID {
	case lost.UserID:
		receiverID = found.UserID
	case found.UserID:
		receiverID = lost.UserID
	default:
		return nil, fmt.Errorf("sender is not a participant of this case: %w", apperrors.ErrForbidden)
	}

	msg, err := s.messages.InsertMessage(ctx, &models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		LostItemID:  lostItemID,
		FoundItemID: foundItemID,
		Content:     content,
		IsImage:     isImage,
	})
	if err != nil {
		return nil, err
	}

	notifyItemName := lost.Name
	if senderID == lost.UserID {
		notifyItemName = found.Name
	}
	err = s.sink.Notify(ctx, receiverID,
		fmt.Sprintf("You have a new message about item %q.", notifyItemName),
		models.NotificationNewMessage, lostItemID, foundItemID)
	if err != nil {
		logrus.WithError(err).WithField("receiverID", receiverID.Hex()).Warn("Failed to deliver message notification")
	}

	return msg, nil
}

// ListMessages returns the full thread for a case, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, lostItemID, foundItemID string) ([]models.Message, error) {
	return s.messages.GetMessagesByPair(ctx, lostItemID, foundItemID)
}

// ListChatsForUser builds the user's live-case chat list: one row per
// distinct case derived from message history, newest activity first.
// Recovered and deleted cases are excluded; this is a working view, not an
// archive.
func (s *ChatService) ListChatsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ChatSummary, error) {
	latest, err := s.messages.GetLatestMessagesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatSummary, 0, len(latest))
	for _, msg := range latest {
		lost, err := s.items.GetItem(ctx, msg.LostItemID)
		if err != nil {
			logrus.WithError(err).WithField("lostItemID", msg.LostItemID).Warn("Chat references missing lost item")
			continue
		}
		found, err := s.items.GetItem(ctx, msg.FoundItemID)
		if err != nil {
			logrus.WithError(err).WithField("foundItemID", msg.FoundItemID).Warn("Chat references missing found item")
			continue
		}
		if lost.Status == models.StatusDeleted || found.Status == models.StatusDeleted {
			continue
		}
		if lost.Status == models.StatusRecovered {
			continue
		}

		otherID := lost.UserID
		if lost.UserID == userID {
			otherID = found.UserID
		}
		otherUsername := ""
		if other, err := s.users.GetUserByID(ctx, otherID); err == nil {
			otherUsername = other.Username
		}

		summaries = append(summaries, models.ChatSummary{
			LostItemID:      lost.ItemID,
			LostItemName:    lost.Name,
			FoundItemID:     found.ItemID,
			FoundItemName:   found.Name,
			OtherUserID:     otherID,
			OtherUsername:   otherUsername,
			LastMessage:     msg.Content,
			LastMessageTime: msg.SentTime,
			LostItemStatus:  lost.Status,
		})
	}
	return summaries, nil
}
