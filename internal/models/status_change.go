package models

// StatusChange is one element of an atomic status batch applied to the item
// store. FromStatus is the expected pre-state: the store rejects the whole
// batch when any item no longer holds its expected status, which serializes
// concurrent case operations touching the same item.
type StatusChange struct {
	ItemID     string
	FromStatus ItemStatus
	ToStatus   ItemStatus
	// MatchItemID controls the case pointer: nil leaves it untouched, a
	// pointer to "" clears it, anything else sets it.
	MatchItemID *string
}

// MatchRef is a convenience for building a StatusChange pointer field.
func MatchRef(id string) *string { return &id }
