package services

import (
	"context"
	"fmt"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolution actions accepted by Resolve.
const (
	ActionFound    = "found"
	ActionNotFound = "not_found"
)

// CaseService links a lost item and a found item into a case and drives the
// case to its terminal state. All status transitions go through the item
// store's atomic batch, so a case is either fully linked or not linked at
// all; there is no observable half-linked state.
type CaseService struct {
	items ItemStore
	users UserStore
	sink  NotificationSink
	mail  ContactSender
}

// NewCaseService creates a new instance of CaseService. mail may be nil when
// no contact channel is configured.
func NewCaseService(items ItemStore, users UserStore, sink NotificationSink, mail ContactSender) *CaseService {
	return &CaseService{
		items: items,
		users: users,
		sink:  sink,
		mail:  mail,
	}
}

// InitiateClaim is the claimant-initiated entry into a case: the claimant
// asserts ownership of a found item. When the claimant has no pre-posted lost
// report, a placeholder lost item is synthesized to anchor the chat thread.
// Returns the case pair (lostItemID, foundItemID).
func (s *CaseService) InitiateClaim(ctx context.Context, claimantID primitive.ObjectID, foundItemID, existingLostItemID string) (string, string, error) {
	found, err := s.items.GetItem(ctx, foundItemID)
	if err != nil {
		return "", "", err
	}
	if found.Type != models.ItemTypeFound {
		return "", "", fmt.Errorf("item %s is not a found report: %w", foundItemID, apperrors.ErrInvalidArgument)
	}
	if found.UserID == claimantID {
		return "", "", fmt.Errorf("cannot claim your own found item: %w", apperrors.ErrForbidden)
	}
	if err := linkable(found); err != nil {
		return "", "", err
	}

	claimant, err := s.users.GetUserByID(ctx, claimantID)
	if err != nil {
		return "", "", err
	}
	finder, err := s.users.GetUserByID(ctx, found.UserID)
	if err != nil {
		return "", "", err
	}

	var lost *models.Item
	if existingLostItemID == "" {
		// Synthesize a placeholder lost item to carry the conversation.
		// It is born Contacting and marked Synthesized so resolution can
		// delete it instead of resetting it.
		lost, err = s.items.CreateItem(ctx, &models.Item{
			UserID: claimantID,
			Type:   models.ItemTypeLost,
			Name:   fmt.Sprintf("Claim of %q", found.Name),
			Description: fmt.Sprintf("Auto-generated entry for user %s to contact the finder of item %s.",
				claimantID.Hex(), foundItemID),
			Status:      models.StatusContacting,
			Synthesized: true,
		})
		if err != nil {
			return "", "", err
		}
	} else {
		lost, err = s.items.GetItem(ctx, existingLostItemID)
		if err != nil {
			return "", "", err
		}
		if lost.Type != models.ItemTypeLost {
			return "", "", fmt.Errorf("item %s is not a lost report: %w", existingLostItemID, apperrors.ErrInvalidArgument)
		}
		if lost.UserID != claimantID {
			return "", "", fmt.Errorf("lost item %s does not belong to the claimant: %w",
				existingLostItemID, apperrors.ErrForbidden)
		}
		if err := linkable(lost); err != nil {
			return "", "", err
		}
	}

	// Linking an item that is already Contacting overwrites its previous
	// match pointer; the pre-state CAS only guards against concurrent
	// writers, not against supersession.
	err = s.items.ApplyStatusChanges(ctx, []models.StatusChange{
		{ItemID: lost.ItemID, FromStatus: lost.Status, ToStatus: models.StatusContacting, MatchItemID: models.MatchRef(found.ItemID)},
		{ItemID: found.ItemID, FromStatus: found.Status, ToStatus: models.StatusContacting, MatchItemID: models.MatchRef(lost.ItemID)},
	})
	if err != nil {
		// A placeholder must not outlive its failed link: soft-delete it so
		// the abort leaves no live partial state behind.
		if existingLostItemID == "" {
			if derr := s.items.UpdateStatus(ctx, lost.ItemID, models.StatusDeleted); derr != nil {
				logrus.WithError(derr).WithField("lostItemID", lost.ItemID).
					Error("Failed to discard placeholder after aborted claim")
			}
		}
		return "", "", err
	}

	s.notify(ctx, claimantID, models.NotificationMatch, lost.ItemID, found.ItemID,
		fmt.Sprintf("You claimed %q. A private chat with finder %q is now open, please confirm the details there.",
			found.Name, finder.Username))
	s.notify(ctx, found.UserID, models.NotificationMatch, lost.ItemID, found.ItemID,
		fmt.Sprintf("User %q claimed your found item %q (linked to lost report %q). Please confirm via private chat.",
			claimant.Username, found.Name, lost.Name))

	logrus.WithFields(logrus.Fields{
		"claimantID":  claimantID.Hex(),
		"lostItemID":  lost.ItemID,
		"foundItemID": found.ItemID,
	}).Info("Claim initiated, case linked")

	return lost.ItemID, found.ItemID, nil
}

// LinkItems is the operator-initiated entry into a case, used by a human
// matcher or to accept an AI shortlist suggestion. Any recognized user may
// perform it; that mirrors community-assisted matching.
func (s *CaseService) LinkItems(ctx context.Context, operatorID primitive.ObjectID, lostItemID, foundItemID string) error {
	if _, err := s.users.GetUserByID(ctx, operatorID); err != nil {
		return fmt.Errorf("unknown operator: %w", apperrors.ErrForbidden)
	}

	lost, err := s.items.GetItem(ctx, lostItemID)
	if err != nil {
		return err
	}
	found, err := s.items.GetItem(ctx, foundItemID)
	if err != nil {
		return err
	}
	if lost.Type != models.ItemTypeLost || found.Type != models.ItemTypeFound {
		return fmt.Errorf("link requires one lost and one found item: %w", apperrors.ErrInvalidArgument)
	}
	if lost.UserID == found.UserID {
		return fmt.Errorf("cannot link two items of the same owner: %w", apperrors.ErrConflict)
	}
	if err := linkable(lost); err != nil {
		return err
	}
	if err := linkable(found); err != nil {
		return err
	}

	err = s.items.ApplyStatusChanges(ctx, []models.StatusChange{
		{ItemID: lost.ItemID, FromStatus: lost.Status, ToStatus: models.StatusContacting, MatchItemID: models.MatchRef(found.ItemID)},
		{ItemID: found.ItemID, FromStatus: found.Status, ToStatus: models.StatusContacting, MatchItemID: models.MatchRef(lost.ItemID)},
	})
	if err != nil {
		return err
	}

	s.notify(ctx, lost.UserID, models.NotificationMatch, lost.ItemID, found.ItemID,
		fmt.Sprintf("Your lost item %q was matched with found item %q. A private chat is now open, please confirm.",
			lost.Name, found.Name))
	s.notify(ctx, found.UserID, models.NotificationMatch, lost.ItemID, found.ItemID,
		fmt.Sprintf("Your found item %q may belong to the owner of lost report %q. A private chat is now open.",
			found.Name, lost.Name))

	// Contact-channel mail is fire and forget; the case stays linked even
	// if delivery fails.
	s.sendMatchMail(lost.UserID, fmt.Sprintf("Your lost item %q may have been found. Log in and check your messages.", lost.Name))
	s.sendMatchMail(found.UserID, fmt.Sprintf("The owner of your found item %q may have been located. Log in and check your messages.", found.Name))

	logrus.WithFields(logrus.Fields{
		"operatorID":  operatorID.Hex(),
		"lostItemID":  lostItemID,
		"foundItemID": foundItemID,
	}).Info("Items linked by operator")

	return nil
}

// Resolve closes or reopens a case. Only the lost item's owner may call it.
// Action "found" recovers both items (terminal); "not_found" dissolves the
// case, deleting a synthesized placeholder and resetting everything else.
func (s *CaseService) Resolve(ctx context.Context, userID primitive.ObjectID, lostItemID, foundItemID, action string) error {
	lost, err := s.items.GetItem(ctx, lostItemID)
	if err != nil {
		return err
	}
	if lost.UserID != userID {
		return fmt.Errorf("only the lost item's owner may resolve the case: %w", apperrors.ErrForbidden)
	}
	found, err := s.items.GetItem(ctx, foundItemID)
	if err != nil {
		return err
	}
	if lost.MatchItemID != found.ItemID || found.MatchItemID != lost.ItemID {
		return fmt.Errorf("items %s and %s are not a linked case: %w", lostItemID, foundItemID, apperrors.ErrConflict)
	}

	switch action {
	case ActionFound:
		// Re-resolving a recovered case is a no-op: the CAS runs from the
		// current status, so a terminal pair can never be un-recovered.
		return s.items.ApplyStatusChanges(ctx, []models.StatusChange{
			{ItemID: lost.ItemID, FromStatus: lost.Status, ToStatus: models.StatusRecovered},
			{ItemID: found.ItemID, FromStatus: found.Status, ToStatus: models.StatusRecovered},
		})
	case ActionNotFound:
		if lost.Status != models.StatusContacting {
			return fmt.Errorf("case is not open for dissolution: %w", apperrors.ErrConflict)
		}
		lostChange := models.StatusChange{
			ItemID:      lost.ItemID,
			FromStatus:  lost.Status,
			ToStatus:    models.StatusUnmatched,
			MatchItemID: models.MatchRef(""),
		}
		if lost.Synthesized {
			// The placeholder has no life outside this case; it keeps its
			// last match pointer as history.
			lostChange.ToStatus = models.StatusDeleted
			lostChange.MatchItemID = nil
		}
		return s.items.ApplyStatusChanges(ctx, []models.StatusChange{
			lostChange,
			{ItemID: found.ItemID, FromStatus: found.Status, ToStatus: models.StatusUnmatched, MatchItemID: models.MatchRef("")},
		})
	default:
		return fmt.Errorf("unknown resolve action %q: %w", action, apperrors.ErrInvalidArgument)
	}
}

// linkable rejects items in a terminal state. A deleted item keeps its last
// match pointer as history and is never reactivated; a recovered item's case
// is closed for good. Contacting stays linkable: re-linking overwrites the
// previous match pointer.
func linkable(item *models.Item) error {
	if item.Status == models.StatusDeleted || item.Status == models.StatusRecovered {
		return fmt.Errorf("item %s is %s and cannot enter a case: %w",
			item.ItemID, item.Status, apperrors.ErrConflict)
	}
	return nil
}

func (s *CaseService) notify(ctx context.Context, userID primitive.ObjectID, notifType models.NotificationType, item1, item2, message string) {
	if err := s.sink.Notify(ctx, userID, message, notifType, item1, item2); err != nil {
		logrus.WithError(err).WithField("userID", userID.Hex()).Warn("Failed to deliver notification")
	}
}

func (s *CaseService) sendMatchMail(userID primitive.ObjectID, body string) {
	if s.mail == nil {
		return
	}
	user, err := s.users.GetUserByID(context.Background(), userID)
	if err != nil || user.Email == "" {
		return
	}
	go func(to string) {
		if err := s.mail.Send(to, "Lost and found match", body); err != nil {
			logrus.WithError(err).WithField("to", to).Warn("Match mail delivery failed")
		}
	}(user.Email)
}
