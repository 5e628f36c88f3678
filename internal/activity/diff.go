package activity

import (
	"encoding/json"
	"sort"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// FieldChange is one differing field between two snapshots.
type FieldChange struct {
	Field  string `json:"field"`
	Before any    `json:"before,omitempty"`
	After  any    `json:"after,omitempty"`
}

// Diff compares two snapshots over the union of their keys and returns the
// fields whose values differ, in key order. Values are compared by their
// JSON encoding, which is stable (object keys sort).
func Diff(before, after model.Snapshot) []FieldChange {
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	var changes []FieldChange
	for _, k := range ordered {
		bv, inBefore := before[k]
		av, inAfter := after[k]
		if inBefore && inAfter && stableString(bv) == stableString(av) {
			continue
		}
		changes = append(changes, FieldChange{Field: k, Before: bv, After: av})
	}
	return changes
}

func stableString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
