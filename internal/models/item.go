package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemType distinguishes lost reports from found reports.
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// ItemStatus is the case lifecycle state of a report.
//
//	Unmatched  -> Contacting (linked into a case)
//	Contacting -> Recovered  (owner confirmed, terminal)
//	Contacting -> Unmatched  (owner dissolved the case)
//	any        -> Deleted    (soft delete, terminal)
type ItemStatus string

const (
	StatusUnmatched  ItemStatus = "unmatched"
	StatusContacting ItemStatus = "contacting"
	StatusRecovered  ItemStatus = "recovered"
	StatusDeleted    ItemStatus = "deleted"
)

// Item represents one lost or found report. ItemID is the human-facing
// L/F-prefixed identifier and doubles as the mongo document key.
type Item struct {
	ItemID      string             `bson:"_id" json:"itemID"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userID"`
	Type        ItemType           `bson:"type" json:"type"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageURL,omitempty"`
	Status      ItemStatus         `bson:"status" json:"status"`
	MatchItemID string             `bson:"match_item_id,omitempty" json:"matchItemID,omitempty"`
	// Synthesized marks a placeholder lost item created to anchor a claim
	// chat. Resolution deletes it instead of resetting it.
	Synthesized bool      `bson:"synthesized,omitempty" json:"synthesized,omitempty"`
	EventTime   time.Time `bson:"event_time" json:"eventTime"`
	PostTime    time.Time `bson:"post_time" json:"postTime"`
}

// ItemPatch is the owner-editable subset of an item's fields. An empty field
// leaves the stored value unchanged; type, status and the match pointer are
// never editable.
type ItemPatch struct {
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Color       string `json:"color,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageURL,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p == ItemPatch{}
}

// ItemIDPrefix returns the ID namespace letter for an item type.
func ItemIDPrefix(t ItemType) string {
	if t == ItemTypeFound {
		return "F"
	}
	return "L"
}

// CounterpartType returns the opposite report kind.
func CounterpartType(t ItemType) ItemType {
	if t == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// Describe flattens the report into one line of text for the match judge.
func (i *Item) Describe() string {
	parts := []string{fmt.Sprintf("name: %s", i.Name)}
	if i.Category != "" {
		parts = append(parts, fmt.Sprintf("category: %s", i.Category))
	}
	if i.Color != "" {
		parts = append(parts, fmt.Sprintf("color: %s", i.Color))
	}
	if i.Location != "" {
		parts = append(parts, fmt.Sprintf("location: %s", i.Location))
	}
	if i.Description != "" {
		parts = append(parts, fmt.Sprintf("details: %s", i.Description))
	}
	return strings.Join(parts, "; ")
}
