package model

import "time"

// Activity actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Activity targets.
const (
	TargetShopItem         = "shop-item"
	TargetMenuButton       = "menu-button"
	TargetShopSettings     = "shop-settings"
	TargetPurchaseSettings = "purchase-settings"
	TargetSellSettings     = "sell-settings"
	TargetMenuSettings     = "menu-settings"
	TargetShopFile         = "shop-file"
)

// Snapshot is a point-in-time copy of an entity's fields, keyed by field
// name. Snapshots never alias live state.
type Snapshot map[string]any

// ActivityLogEntry is one immutable audit record. Entries are ordered newest
// first and the log is bounded to the most recent MaxLogEntries.
type ActivityLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Before    Snapshot  `json:"before,omitempty"`
	After     Snapshot  `json:"after,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// MaxLogEntries bounds the activity log; the oldest entries are dropped.
const MaxLogEntries = 100

// UnsavedChange is a queued description of one audited mutation since the
// last persisted save, used for the pre-save confirmation summary.
type UnsavedChange struct {
	Action      string `json:"action"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

// CloneSnapshot returns a deep copy of the snapshot. Nested maps and slices
// produced by the snapshot builders (and by JSON decoding of persisted
// entries) are copied structurally.
func CloneSnapshot(s Snapshot) Snapshot {
	if s == nil {
		return nil
	}
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Snapshot:
		return CloneSnapshot(val)
	case map[string]any:
		return map[string]any(CloneSnapshot(Snapshot(val)))
	case map[string]int:
		return cloneIntMap(val)
	case []string:
		return cloneStrings(val)
	case []any:
		c := make([]any, len(val))
		for i, e := range val {
			c[i] = cloneValue(e)
		}
		return c
	default:
		// Scalars are immutable.
		return v
	}
}
