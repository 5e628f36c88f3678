package editor

import (
	"context"
	"fmt"
	"sort"

	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// TransactionSettings returns a copy of the purchase or sell menu settings.
func (e *Editor) TransactionSettings(kind string) (*model.TransactionMenuSettings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil, ErrNotLoaded
	}
	switch kind {
	case model.MenuPurchase:
		return e.purchase.Clone(), nil
	case model.MenuSell:
		return e.sell.Clone(), nil
	}
	return nil, fmt.Errorf("unknown transaction menu %q", kind)
}

// UpdateTransactionSettings replaces the purchase or sell menu settings
// after checking that no two elements claim the same slot.
func (e *Editor) UpdateTransactionSettings(ctx context.Context, username, kind string, settings *model.TransactionMenuSettings) error {
	settings = settings.Clone()
	settings.Kind = kind
	switch kind {
	case model.MenuPurchase:
		settings.SellAll = nil
	case model.MenuSell:
		if settings.SellAll == nil {
			settings.SellAll = &model.ActionButton{}
		}
	default:
		return fmt.Errorf("unknown transaction menu %q", kind)
	}

	if err := validateTransactionSettings(settings); err != nil {
		return err
	}

	target := model.TargetPurchaseSettings
	file := files.PurchaseMenuFile
	if kind == model.MenuSell {
		target = model.TargetSellSettings
		file = files.SellMenuFile
	}

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	var before model.Snapshot
	if kind == model.MenuPurchase {
		before = model.SnapshotTransactionSettings(e.purchase)
		e.purchase = settings
	} else {
		before = model.SnapshotTransactionSettings(e.sell)
		e.sell = settings
	}
	after := model.SnapshotTransactionSettings(settings)
	e.scheduleMenuSaveLocked(file)
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionUpdated, target, before, after, "")
	e.noteChange(entry)
	return nil
}

// validateTransactionSettings checks ranges and slot uniqueness across the
// display item, the named buttons and every amount button.
func validateTransactionSettings(s *model.TransactionMenuSettings) error {
	if s.MaxAmount < 1 {
		return fmt.Errorf("max amount must be at least 1")
	}

	occupants := make(map[int]string)
	claim := func(slot int, who string) error {
		if slot < model.MinSlot || slot > model.MaxSlot {
			return fmt.Errorf("%s slot must be between %d and %d", who, model.MinSlot, model.MaxSlot)
		}
		if prev, taken := occupants[slot]; taken {
			return &SlotConflictError{Slot: slot, Occupant: prev}
		}
		occupants[slot] = who
		return nil
	}

	if err := claim(s.DisplaySlot, "display item"); err != nil {
		return err
	}
	named := []struct {
		btn  *model.ActionButton
		name string
	}{
		{&s.Confirm, "confirm button"},
		{&s.Cancel, "cancel button"},
		{&s.Back, "back button"},
		{s.SellAll, "sell-all button"},
	}
	for _, n := range named {
		if n.btn == nil {
			continue
		}
		if err := claim(n.btn.Slot, n.name); err != nil {
			return err
		}
	}

	groups := []struct {
		group *model.ButtonGroup
		name  string
	}{
		{&s.Add, "add"},
		{&s.Remove, "remove"},
		{&s.Set, "set"},
	}
	for _, g := range groups {
		keys := make([]string, 0, len(g.group.Amounts))
		for k := range g.group.Amounts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := claim(g.group.Amounts[k].Slot, fmt.Sprintf("%s button '%s'", g.name, k)); err != nil {
				return err
			}
		}
	}
	return nil
}
