package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/adilzhan-s/lostfound/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxIDAttempts = 5

// ItemRepository handles database operations related to item reports.
type ItemRepository struct {
	collection *mongo.Collection
	client     *mongo.Client
}

// NewItemRepository creates a new instance of ItemRepository.
func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{
		collection: db.Collection("items"),
		client:     db.Client(),
	}
}

// generateItemID builds a candidate ID: the type prefix plus nine random
// digits, matching the platform's L/F-namespaced ID scheme.
func generateItemID(t models.ItemType) string {
	return fmt.Sprintf("%s%09d", models.ItemIDPrefix(t), rand.Intn(900000000)+100000000)
}

// CreateItem inserts a new item, generating its ID. Collisions surface as
// duplicate-key errors on insert and trigger a retry with a fresh ID.
func (r *ItemRepository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.PostTime.IsZero() {
		item.PostTime = time.Now()
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		item.ItemID = generateItemID(item.Type)
		_, err := r.collection.InsertOne(ctx, item)
		if err == nil {
			logger.Log.WithField("item_id", item.ItemID).Info("Item created successfully")
			return item, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			logger.Log.WithField("item_id", item.ItemID).Warn("Item ID collision, retrying")
			continue
		}
		logger.Log.WithError(err).Error("Failed to insert item")
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return nil, fmt.Errorf("failed to create item: exhausted ID generation attempts")
}

// GetItem fetches an item by its ID.
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("item %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		logger.Log.WithError(err).WithField("item_id", id).Error("Failed to find item by ID")
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	return &item, nil
}

// ApplyStatusChanges applies a batch of status/link updates as a single
// transactional unit. Every update carries a compare-and-swap filter on the
// item's expected status; a missed match aborts the transaction with
// ErrConflict, so a concurrently relinked item can never be half-updated.
func (r *ItemRepository) ApplyStatusChanges(ctx context.Context, changes []models.StatusChange) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, change := range changes {
			set := bson.M{"status": change.ToStatus}
			unset := bson.M{}
			if change.MatchItemID != nil {
				if *change.MatchItemID == "" {
					unset["match_item_id"] = ""
				} else {
					set["match_item_id"] = *change.MatchItemID
				}
			}
			update := bson.M{"$set": set}
			if len(unset) > 0 {
				update["$unset"] = unset
			}

			filter := bson.M{"_id": change.ItemID, "status": change.FromStatus}
			result, err := r.collection.UpdateOne(sc, filter, update)
			if err != nil {
				return nil, fmt.Errorf("failed to update item %s: %w", change.ItemID, err)
			}
			if result.MatchedCount == 0 {
				return nil, fmt.Errorf("item %s is no longer %s: %w",
					change.ItemID, change.FromStatus, apperrors.ErrConflict)
			}
		}
		return nil, nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Log.WithError(err).Error("Status change batch failed")
		}
		return err
	}

	logger.Log.WithField("count", len(changes)).Info("Status change batch applied")
	return nil
}

// UpdateStatus sets an item's status unconditionally. Used for owner or
// admin soft deletion, which does not participate in case transitions.
func (r *ItemRepository) UpdateStatus(ctx context.Context, id string, status models.ItemStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		logger.Log.WithError(err).WithField("item_id", id).Error("Failed to update item status")
		return fmt.Errorf("failed to update item status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("item %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateDetails applies the owner-editable fields of a report. Case state is
// not touched here.
func (r *ItemRepository) UpdateDetails(ctx context.Context, id string, patch models.ItemPatch) error {
	set := bson.M{}
	if patch.Name != "" {
		set["name"] = patch.Name
	}
	if patch.Category != "" {
		set["category"] = patch.Category
	}
	if patch.Color != "" {
		set["color"] = patch.Color
	}
	if patch.Location != "" {
		set["location"] = patch.Location
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.ImageURL != "" {
		set["image_url"] = patch.ImageURL
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		logger.Log.WithError(err).WithField("item_id", id).Error("Failed to update item details")
		return fmt.Errorf("failed to update item details: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("item %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListByTypeAndStatus returns items of the given type and status, excluding
// those owned by excludeOwner. This is the matching scan's candidate pool.
func (r *ItemRepository) ListByTypeAndStatus(ctx context.Context, itemType models.ItemType, status models.ItemStatus, excludeOwner primitive.ObjectID) ([]models.Item, error) {
	filter := bson.M{
		"type":    itemType,
		"status":  status,
		"user_id": bson.M{"$ne": excludeOwner},
	}
	return r.findItems(ctx, filter, options.Find().SetSort(bson.D{{Key: "post_time", Value: -1}}))
}

// ListItems returns non-deleted items of a type, optionally narrowed by a
// free-text search over name/description/location and by categories.
func (r *ItemRepository) ListItems(ctx context.Context, itemType models.ItemType, search string, categories []string) ([]models.Item, error) {
	filter := bson.M{
		"type":   itemType,
		"status": bson.M{"$ne": models.StatusDeleted},
	}
	if search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"description": regex},
			{"location": regex},
		}
	}
	if len(categories) > 0 {
		filter["category"] = bson.M{"$in": categories}
	}
	return r.findItems(ctx, filter, options.Find().SetSort(bson.D{{Key: "post_time", Value: -1}}))
}

// ListUserItems returns a user's non-deleted items, optionally filtered by
// type and status.
func (r *ItemRepository) ListUserItems(ctx context.Context, userID primitive.ObjectID, itemType models.ItemType, status models.ItemStatus) ([]models.Item, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$ne": models.StatusDeleted},
	}
	if itemType != "" {
		filter["type"] = itemType
	}
	if status != "" {
		filter["status"] = status
	}
	return r.findItems(ctx, filter, options.Find().SetSort(bson.D{{Key: "post_time", Value: -1}}))
}

func (r *ItemRepository) findItems(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Item, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch items")
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}
