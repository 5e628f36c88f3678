package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// AddItem appends an item to the current shop. The ID field of the input is
// ignored; the editor assigns the next free one.
func (e *Editor) AddItem(ctx context.Context, username string, item model.ShopItem) (model.ShopItem, error) {
	if err := validateItem(&item); err != nil {
		return model.ShopItem{}, err
	}

	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return model.ShopItem{}, ErrNoShopSelected
	}
	item.ID = e.nextItemID
	e.nextItemID++
	e.current.Items = append(e.current.Items, item.Clone())
	after := model.SnapshotItem(item)
	details := e.currentFile
	e.scheduleShopSaveLocked()
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionCreated, model.TargetShopItem, nil, after, details)
	e.noteChange(entry)
	return item, nil
}

// UpdateItem replaces the fields of an existing item, keeping its ID.
func (e *Editor) UpdateItem(ctx context.Context, username string, id int64, item model.ShopItem) (model.ShopItem, error) {
	if err := validateItem(&item); err != nil {
		return model.ShopItem{}, err
	}

	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return model.ShopItem{}, ErrNoShopSelected
	}
	idx := e.itemIndexLocked(id)
	if idx < 0 {
		e.mu.Unlock()
		return model.ShopItem{}, ErrItemNotFound
	}
	before := model.SnapshotItem(e.current.Items[idx])
	item.ID = id
	e.current.Items[idx] = item.Clone()
	after := model.SnapshotItem(item)
	details := e.currentFile
	e.scheduleShopSaveLocked()
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionUpdated, model.TargetShopItem, before, after, details)
	e.noteChange(entry)
	return item, nil
}

// RemoveItem deletes an item from the current shop.
func (e *Editor) RemoveItem(ctx context.Context, username string, id int64) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNoShopSelected
	}
	idx := e.itemIndexLocked(id)
	if idx < 0 {
		e.mu.Unlock()
		return ErrItemNotFound
	}
	before := model.SnapshotItem(e.current.Items[idx])
	e.current.Items = append(e.current.Items[:idx], e.current.Items[idx+1:]...)
	details := e.currentFile
	e.scheduleShopSaveLocked()
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionDeleted, model.TargetShopItem, before, nil, details)
	e.noteChange(entry)
	return nil
}

// Item returns a copy of one item from the current shop.
func (e *Editor) Item(id int64) (model.ShopItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return model.ShopItem{}, ErrNoShopSelected
	}
	idx := e.itemIndexLocked(id)
	if idx < 0 {
		return model.ShopItem{}, ErrItemNotFound
	}
	return e.current.Items[idx].Clone(), nil
}

// itemIndexLocked finds an item by ID in the current shop. Caller holds e.mu.
func (e *Editor) itemIndexLocked(id int64) int {
	for i := range e.current.Items {
		if e.current.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// validateItem checks the fields a shop item must have and normalizes the
// amount.
func validateItem(item *model.ShopItem) error {
	if item.Material == "" {
		return errors.New("item material is required")
	}
	if item.Price < 0 || item.SellPrice < 0 {
		return errors.New("item prices cannot be negative")
	}
	if item.Amount <= 0 {
		item.Amount = 1
	}
	if item.PotionLevel < 0 {
		return fmt.Errorf("invalid potion level %d", item.PotionLevel)
	}
	for name, level := range item.Enchantments {
		if name == "" || level < 1 {
			return fmt.Errorf("invalid enchantment %q: %d", name, level)
		}
	}
	return nil
}
