package activity

import (
	"fmt"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Summarize renders a one-line human description of an entry, dispatching on
// its (action, target) pair. Unrecognized combinations fall back to a
// generic line; that fallback is load-bearing for entries recorded by newer
// versions of the editor.
func Summarize(e model.ActivityLogEntry) string {
	switch e.Target {
	case model.TargetShopItem:
		name := snapshotName(e.After, e.Before)
		switch e.Action {
		case model.ActionCreated:
			return withDetails(fmt.Sprintf("Added item %s", name), e.Details)
		case model.ActionUpdated:
			return withDetails(fmt.Sprintf("Updated item %s", name), e.Details)
		case model.ActionDeleted:
			return withDetails(fmt.Sprintf("Removed item %s", name), e.Details)
		}

	case model.TargetMenuButton:
		key := snapshotKey(e.After, e.Before)
		switch e.Action {
		case model.ActionCreated:
			return fmt.Sprintf("Added menu button %s", key)
		case model.ActionUpdated:
			return fmt.Sprintf("Updated menu button %s", key)
		case model.ActionDeleted:
			return fmt.Sprintf("Removed menu button %s", key)
		}

	case model.TargetMenuSettings:
		if e.Action == model.ActionUpdated {
			return "Updated main menu settings"
		}

	case model.TargetShopSettings:
		if e.Action == model.ActionUpdated {
			return withDetails("Updated shop settings", e.Details)
		}

	case model.TargetPurchaseSettings:
		if e.Action == model.ActionUpdated {
			return "Updated purchase menu settings"
		}

	case model.TargetSellSettings:
		if e.Action == model.ActionUpdated {
			return "Updated sell menu settings"
		}

	case model.TargetShopFile:
		switch e.Action {
		case model.ActionCreated:
			return withDetails("Created shop file", e.Details)
		case model.ActionDeleted:
			return withDetails("Deleted shop file", e.Details)
		}
	}

	return "Made changes"
}

// withDetails appends the free-form context (usually the shop filename).
func withDetails(summary, details string) string {
	if details == "" {
		return summary
	}
	return summary + " in " + details
}

// snapshotName picks a display name from the first snapshot that has one.
func snapshotName(snaps ...model.Snapshot) string {
	for _, s := range snaps {
		if name, ok := s["name"].(string); ok && name != "" {
			return "'" + name + "'"
		}
		if mat, ok := s["material"].(string); ok && mat != "" {
			return mat
		}
	}
	return "item"
}

func snapshotKey(snaps ...model.Snapshot) string {
	for _, s := range snaps {
		if key, ok := s["key"].(string); ok && key != "" {
			return "'" + key + "'"
		}
	}
	return "button"
}
