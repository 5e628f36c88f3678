package editor

import (
	"context"
	"fmt"

	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Rollback reverts the change an activity entry recorded, by applying a new
// forward change: history is never rewritten. Deleting an element is
// reverted by re-adding it (under a fresh ID for items), an update by
// restoring the before snapshot. Creations and shop-file changes cannot be
// reverted.
func (e *Editor) Rollback(ctx context.Context, username, entryID string) error {
	entry, ok := e.log.Get(entryID)
	if !ok {
		return ErrEntryNotFound
	}

	switch entry.Target {
	case model.TargetShopItem:
		return e.rollbackItem(ctx, username, entry)
	case model.TargetMenuButton:
		return e.rollbackButton(ctx, username, entry)
	case model.TargetShopSettings:
		return e.rollbackShopSettings(ctx, username, entry)
	case model.TargetMenuSettings:
		return e.rollbackMenuSettings(ctx, username, entry)
	case model.TargetPurchaseSettings, model.TargetSellSettings:
		return e.rollbackTransactionSettings(ctx, username, entry)
	}
	return ErrRollbackUnsupported
}

func (e *Editor) rollbackItem(ctx context.Context, username string, entry model.ActivityLogEntry) error {
	if entry.Action == model.ActionCreated {
		return fmt.Errorf("%w: item creation", ErrRollbackUnsupported)
	}

	// Item entries carry the shop filename; make that shop current first.
	if entry.Details != "" {
		if err := e.SwitchShop(entry.Details); err != nil {
			return fmt.Errorf("%w: shop file %q", ErrTargetNotFound, entry.Details)
		}
	}

	restored := model.ItemFromSnapshot(entry.Before)

	switch entry.Action {
	case model.ActionDeleted:
		_, err := e.AddItem(ctx, username, restored)
		return err

	case model.ActionUpdated:
		e.mu.Lock()
		if e.current == nil {
			e.mu.Unlock()
			return ErrNoShopSelected
		}
		idx := e.itemIndexLocked(restored.ID)
		if idx < 0 {
			idx = e.itemIndexByNameLocked(restored.Name)
		}
		if idx < 0 {
			e.mu.Unlock()
			return fmt.Errorf("%w: item %q", ErrTargetNotFound, restored.Name)
		}
		before := model.SnapshotItem(e.current.Items[idx])
		restored.ID = e.current.Items[idx].ID
		e.current.Items[idx] = restored.Clone()
		after := model.SnapshotItem(restored)
		details := e.currentFile
		e.scheduleShopSaveLocked()
		e.mu.Unlock()

		reverted := e.log.Record(ctx, username, model.ActionUpdated, model.TargetShopItem, before, after, details)
		e.noteChange(reverted)
		return nil
	}
	return ErrRollbackUnsupported
}

func (e *Editor) rollbackButton(ctx context.Context, username string, entry model.ActivityLogEntry) error {
	if entry.Action == model.ActionCreated {
		return fmt.Errorf("%w: button creation", ErrRollbackUnsupported)
	}

	restored := model.ButtonFromSnapshot(entry.Before)

	switch entry.Action {
	case model.ActionDeleted:
		return e.AddButton(ctx, username, restored)
	case model.ActionUpdated:
		if e.menuButtonMissing(restored.Key) {
			return fmt.Errorf("%w: button %q", ErrTargetNotFound, restored.Key)
		}
		return e.UpdateButton(ctx, username, restored.Key, restored)
	}
	return ErrRollbackUnsupported
}

func (e *Editor) rollbackShopSettings(ctx context.Context, username string, entry model.ActivityLogEntry) error {
	if entry.Action != model.ActionUpdated {
		return ErrRollbackUnsupported
	}
	if entry.Details != "" {
		if err := e.SwitchShop(entry.Details); err != nil {
			return fmt.Errorf("%w: shop file %q", ErrTargetNotFound, entry.Details)
		}
	}

	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNoShopSelected
	}
	before := model.SnapshotShopSettings(e.current)
	model.ApplyShopSettings(e.current, entry.Before)
	after := model.SnapshotShopSettings(e.current)
	details := e.currentFile
	e.scheduleShopSaveLocked()
	e.mu.Unlock()

	reverted := e.log.Record(ctx, username, model.ActionUpdated, model.TargetShopSettings, before, after, details)
	e.noteChange(reverted)
	return nil
}

func (e *Editor) rollbackMenuSettings(ctx context.Context, username string, entry model.ActivityLogEntry) error {
	if entry.Action != model.ActionUpdated {
		return ErrRollbackUnsupported
	}

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	before := model.SnapshotMenuSettings(e.menu)
	model.ApplyMenuSettings(e.menu, entry.Before)
	after := model.SnapshotMenuSettings(e.menu)
	e.scheduleMenuSaveLocked(files.MainMenuFile)
	e.mu.Unlock()

	reverted := e.log.Record(ctx, username, model.ActionUpdated, model.TargetMenuSettings, before, after, "")
	e.noteChange(reverted)
	return nil
}

func (e *Editor) rollbackTransactionSettings(ctx context.Context, username string, entry model.ActivityLogEntry) error {
	if entry.Action != model.ActionUpdated {
		return ErrRollbackUnsupported
	}
	kind := model.MenuPurchase
	if entry.Target == model.TargetSellSettings {
		kind = model.MenuSell
	}

	restored := model.NewTransactionMenuSettings(kind)
	model.ApplyTransactionSettings(restored, entry.Before)
	return e.UpdateTransactionSettings(ctx, username, kind, restored)
}

func (e *Editor) menuButtonMissing(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.loaded || e.menu.Button(key) == nil
}

// itemIndexByNameLocked is the fallback lookup for rollbacks whose recorded
// ID no longer matches (IDs restart on every file switch). Caller holds e.mu.
func (e *Editor) itemIndexByNameLocked(name string) int {
	if name == "" {
		return -1
	}
	for i := range e.current.Items {
		if e.current.Items[i].Name == name {
			return i
		}
	}
	return -1
}
