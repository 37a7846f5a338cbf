package services

import (
	"context"

	"github.com/adilzhan-s/lostfound/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The services depend on these narrow interfaces rather than the concrete
// mongo repositories, so tests can substitute in-memory fakes.

// ItemStore is the persistence contract for item reports. ApplyStatusChanges
// is the only path that moves case state: it applies its batch atomically and
// fails with apperrors.ErrConflict when any item's expected pre-state no
// longer holds.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ApplyStatusChanges(ctx context.Context, changes []models.StatusChange) error
	UpdateStatus(ctx context.Context, id string, status models.ItemStatus) error
	UpdateDetails(ctx context.Context, id string, patch models.ItemPatch) error
	ListByTypeAndStatus(ctx context.Context, itemType models.ItemType, status models.ItemStatus, excludeOwner primitive.ObjectID) ([]models.Item, error)
	ListItems(ctx context.Context, itemType models.ItemType, search string, categories []string) ([]models.Item, error)
	ListUserItems(ctx context.Context, userID primitive.ObjectID, itemType models.ItemType, status models.ItemStatus) ([]models.Item, error)
}

// MessageStore persists case chat threads.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetMessagesByPair(ctx context.Context, lostItemID, foundItemID string) ([]models.Message, error)
	GetLatestMessagesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
}

// UserStore looks up and creates user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// NotificationSink accepts a notification for a user and persists it unread.
// Linking and messaging treat sink failures as best-effort: logged, never
// rolled back.
type NotificationSink interface {
	Notify(ctx context.Context, userID primitive.ObjectID, message string, notifType models.NotificationType, relatedItem1, relatedItem2 string) error
}

// MatchJudge decides whether a lost report and a found report describe the
// same item. It may be slow and may fail per call; the matching scan isolates
// and times out each invocation.
type MatchJudge interface {
	Judge(ctx context.Context, lostDesc, foundDesc string) (bool, error)
}

// ContactSender delivers out-of-band mail to a user's registered address.
type ContactSender interface {
	Send(to, subject, body string) error
}
