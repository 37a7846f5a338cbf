package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/adilzhan-s/lostfound/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository handles database operations for case chat threads.
type MessageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{collection: db.Collection("messages")}
}

// InsertMessage stores a message and returns it with its generated ID.
func (r *MessageRepository) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.SentTime = time.Now()
	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert message")
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

// GetMessagesByPair returns the full thread for one case in ascending
// send-time order.
func (r *MessageRepository) GetMessagesByPair(ctx context.Context, lostItemID, foundItemID string) ([]models.Message, error) {
	filter := bson.M{
		"lost_item_id":  lostItemID,
		"found_item_id": foundItemID,
	}
	opts := options.Find().SetSort(bson.D{{Key: "sent_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// GetLatestMessagesForUser returns, newest first, the most recent message of
// every distinct case the user participates in (as sender or receiver).
func (r *MessageRepository) GetLatestMessagesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID},
			{"receiver_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "sent_time", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user messages: %w", err)
	}
	defer cursor.Close(ctx)

	type pairKey struct{ lost, found string }
	seen := make(map[pairKey]bool)
	var latest []models.Message

	for cursor.Next(ctx) {
		var msg models.Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		key := pairKey{msg.LostItemID, msg.FoundItemID}
		if seen[key] {
			continue
		}
		seen[key] = true
		latest = append(latest, msg)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user messages: %w", err)
	}
	return latest, nil
}
