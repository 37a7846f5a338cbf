package services

import (
	"context"
	"fmt"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemService encapsulates the business logic for posting and browsing item
// reports. Case state transitions are not handled here; see CaseService.
type ItemService struct {
	items ItemStore
	users UserStore
}

// NewItemService creates a new instance of ItemService.
func NewItemService(items ItemStore, users UserStore) *ItemService {
	return &ItemService{items: items, users: users}
}

// CreateItem validates and stores a new report. New reports always start
// Unmatched.
func (s *ItemService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.Type != models.ItemTypeLost && item.Type != models.ItemTypeFound {
		return nil, fmt.Errorf("unknown item type %q: %w", item.Type, apperrors.ErrInvalidArgument)
	}
	if item.Name == "" {
		return nil, fmt.Errorf("item name is required: %w", apperrors.ErrInvalidArgument)
	}
	if item.EventTime.IsZero() {
		return nil, fmt.Errorf("event time is required: %w", apperrors.ErrInvalidArgument)
	}
	// A found report without a photo is useless to claimants.
	if item.Type == models.ItemTypeFound && item.ImageURL == "" {
		return nil, fmt.Errorf("found items require an image: %w", apperrors.ErrInvalidArgument)
	}

	item.Status = models.StatusUnmatched
	item.MatchItemID = ""
	item.Synthesized = false

	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"itemID": created.ItemID,
		"userID": created.UserID.Hex(),
		"type":   created.Type,
	}).Info("Item posted")
	return created, nil
}

// GetItem fetches a single item report.
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.items.GetItem(ctx, id)
}

// GetItemDetail fetches an item together with its poster's username. A
// missing poster account degrades to an empty username rather than an error.
func (s *ItemService) GetItemDetail(ctx context.Context, id string) (*models.Item, string, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, "", err
	}
	username := ""
	if poster, err := s.users.GetUserByID(ctx, item.UserID); err == nil {
		username = poster.Username
	}
	return item, username, nil
}

// UpdateItem lets the owner edit the descriptive fields of their report.
// Type, status and the match pointer are not editable through this path.
func (s *ItemService) UpdateItem(ctx context.Context, requesterID primitive.ObjectID, itemID string, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusDeleted {
		return nil, fmt.Errorf("item %s: %w", itemID, apperrors.ErrNotFound)
	}
	if item.UserID != requesterID {
		return nil, fmt.Errorf("only the owner may edit an item: %w", apperrors.ErrForbidden)
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("nothing to update: %w", apperrors.ErrInvalidArgument)
	}

	if err := s.items.UpdateDetails(ctx, itemID, patch); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"itemID": itemID,
		"userID": requesterID.Hex(),
	}).Info("Item updated")
	return s.items.GetItem(ctx, itemID)
}

// ListItems returns non-deleted reports of one kind with optional search and
// category filters.
func (s *ItemService) ListItems(ctx context.Context, itemType models.ItemType, search string, categories []string) ([]models.Item, error) {
	if itemType != models.ItemTypeLost && itemType != models.ItemTypeFound {
		return nil, fmt.Errorf("unknown item type %q: %w", itemType, apperrors.ErrInvalidArgument)
	}
	return s.items.ListItems(ctx, itemType, search, categories)
}

// ListUserItems returns a user's own non-deleted reports.
func (s *ItemService) ListUserItems(ctx context.Context, userID primitive.ObjectID, itemType models.ItemType, status models.ItemStatus) ([]models.Item, error) {
	return s.items.ListUserItems(ctx, userID, itemType, status)
}

// DeleteItem soft-deletes a report. Only the owner or an administrator may do
// it; the record itself is never removed.
func (s *ItemService) DeleteItem(ctx context.Context, requesterID primitive.ObjectID, requesterRole, itemID string) error {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != requesterID && requesterRole != "admin" {
		return fmt.Errorf("only the owner or an admin may delete an item: %w", apperrors.ErrForbidden)
	}
	return s.items.UpdateStatus(ctx, itemID, models.StatusDeleted)
}
