package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

func newRollbackEditor(t *testing.T) (*Editor, *activity.Log, *memSource) {
	t.Helper()
	src := newMemSource()
	src.texts[files.ShopPath("a.yml")] = blocksShop
	log := activity.NewLog(nil)
	e := New(src, log, 10*time.Millisecond)
	if err := e.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return e, log, src
}

func TestRollbackUnknownEntry(t *testing.T) {
	e, _, _ := newRollbackEditor(t)
	if err := e.Rollback(context.Background(), "admin", "nope"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestRollbackItemCreationUnsupported(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	if _, err := e.AddItem(ctx, "admin", model.ShopItem{Material: "DIRT"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	entry := log.Entries()[0]

	if err := e.Rollback(ctx, "admin", entry.ID); !errors.Is(err, ErrRollbackUnsupported) {
		t.Errorf("expected ErrRollbackUnsupported, got %v", err)
	}
}

func TestRollbackDeletedItemReAddsWithFreshID(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	added, err := e.AddItem(ctx, "admin", model.ShopItem{
		Material:     "DIAMOND_SWORD",
		Name:         "&bSlayer",
		Price:        500,
		Enchantments: map[string]int{"sharpness": 5},
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := e.RemoveItem(ctx, "admin", added.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	deletion := log.Entries()[0]

	if err := e.Rollback(ctx, "admin", deletion.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	_, doc, _ := e.CurrentShop()
	var restored *model.ShopItem
	for i := range doc.Items {
		if doc.Items[i].Name == "&bSlayer" {
			restored = &doc.Items[i]
		}
	}
	if restored == nil {
		t.Fatal("deleted item not restored")
	}
	if restored.ID == added.ID {
		t.Error("restored item reused old ID")
	}
	if restored.Enchantments["sharpness"] != 5 {
		t.Errorf("enchantments lost: %+v", restored.Enchantments)
	}

	// The rollback itself is a forward entry, not a history rewrite.
	newest := log.Entries()[0]
	if newest.ID == deletion.ID {
		t.Error("rollback did not record a new entry")
	}
	if newest.Action != model.ActionCreated || newest.Target != model.TargetShopItem {
		t.Errorf("rollback entry: %s %s", newest.Action, newest.Target)
	}
	if _, ok := log.Get(deletion.ID); !ok {
		t.Error("original deletion entry removed from history")
	}
}

func TestRollbackUpdatedItemRestoresBefore(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	orig, err := e.Item(1)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	changed := orig
	changed.Price = 999
	changed.Name = "&cOverpriced"
	if _, err := e.UpdateItem(ctx, "admin", 1, changed); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	update := log.Entries()[0]

	if err := e.Rollback(ctx, "admin", update.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	got, err := e.Item(1)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if got.Price != orig.Price || got.Name != orig.Name {
		t.Errorf("item not restored: %+v", got)
	}

	// The new entry documents the revert with the sides swapped.
	newest := log.Entries()[0]
	if newest.Action != model.ActionUpdated {
		t.Errorf("rollback entry action: %s", newest.Action)
	}
	if newest.Before["price"] != 999.0 {
		t.Errorf("rollback before snapshot: %v", newest.Before["price"])
	}
	if newest.After["price"] != orig.Price {
		t.Errorf("rollback after snapshot: %v", newest.After["price"])
	}
}

func TestRollbackUpdatedItemFallsBackToNameLookup(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	orig, _ := e.Item(1)
	changed := orig
	changed.Name = "&7Stone Block"
	changed.Price = 20
	if _, err := e.UpdateItem(ctx, "admin", 1, changed); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	// Item IDs restart on every file load, so an old entry may carry an ID
	// that no longer matches. The name lookup must then find the item.
	stale := model.ActivityLogEntry{
		ID:      "stale-entry",
		Action:  model.ActionUpdated,
		Target:  model.TargetShopItem,
		Before:  model.Snapshot{"id": int64(42), "name": "&7Stone Block", "material": "STONE", "price": 10.0, "amount": 1},
		Details: "a.yml",
	}
	log.Seed([]model.ActivityLogEntry{stale})

	if err := e.Rollback(ctx, "admin", stale.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	got, _ := e.Item(1)
	if got.Price != 10 {
		t.Errorf("item not restored via name lookup: %+v", got)
	}
}

func TestRollbackDeletedButton(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	btn := model.MainMenuButton{Key: "blocks", Slot: 10, Material: "STONE", Name: "&7Blocks"}
	if err := e.AddButton(ctx, "admin", btn); err != nil {
		t.Fatalf("AddButton: %v", err)
	}
	if err := e.RemoveButton(ctx, "admin", "blocks"); err != nil {
		t.Fatalf("RemoveButton: %v", err)
	}
	deletion := log.Entries()[0]

	if err := e.Rollback(ctx, "admin", deletion.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	menu, _ := e.MainMenu()
	if menu.Button("blocks") == nil {
		t.Error("deleted button not restored")
	}
}

func TestRollbackUpdatedButtonMissingTarget(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	btn := model.MainMenuButton{Key: "blocks", Slot: 10, Material: "STONE"}
	if err := e.AddButton(ctx, "admin", btn); err != nil {
		t.Fatalf("AddButton: %v", err)
	}
	btn.Slot = 12
	if err := e.UpdateButton(ctx, "admin", "blocks", btn); err != nil {
		t.Fatalf("UpdateButton: %v", err)
	}
	update := log.Entries()[0]

	if err := e.RemoveButton(ctx, "admin", "blocks"); err != nil {
		t.Fatalf("RemoveButton: %v", err)
	}
	if err := e.Rollback(ctx, "admin", update.ID); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestRollbackMenuSettings(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	if err := e.UpdateMenuSettings(ctx, "admin", "&8Old Title", 6); err != nil {
		t.Fatalf("UpdateMenuSettings: %v", err)
	}
	if err := e.UpdateMenuSettings(ctx, "admin", "&8New Title", 5); err != nil {
		t.Fatalf("UpdateMenuSettings: %v", err)
	}
	update := log.Entries()[0]

	if err := e.Rollback(ctx, "admin", update.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	menu, _ := e.MainMenu()
	if menu.Title != "&8Old Title" || menu.Rows != 6 {
		t.Errorf("menu settings not restored: %+v", menu)
	}
}

func TestRollbackTransactionSettings(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	s := model.NewTransactionMenuSettings(model.MenuPurchase)
	s.TitlePrefix = "&8Buying: "
	s.Confirm.Slot = 39
	s.Cancel.Slot = 41
	s.Back.Slot = 49
	if err := e.UpdateTransactionSettings(ctx, "admin", model.MenuPurchase, s); err != nil {
		t.Fatalf("update: %v", err)
	}
	s2 := s.Clone()
	s2.TitlePrefix = "&8Purchasing: "
	s2.MaxAmount = 32
	if err := e.UpdateTransactionSettings(ctx, "admin", model.MenuPurchase, s2); err != nil {
		t.Fatalf("update: %v", err)
	}
	update := log.Entries()[0]

	if err := e.Rollback(ctx, "admin", update.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	got, _ := e.TransactionSettings(model.MenuPurchase)
	if got.TitlePrefix != "&8Buying: " || got.MaxAmount != model.DefaultMaxAmount {
		t.Errorf("settings not restored: %+v", got)
	}
}

func TestRollbackShopFileUnsupported(t *testing.T) {
	e, log, _ := newRollbackEditor(t)
	ctx := context.Background()

	if err := e.CreateShop(ctx, "admin", "new.yml", "&8New"); err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	creation := log.Entries()[0]
	if err := e.Rollback(ctx, "admin", creation.ID); !errors.Is(err, ErrRollbackUnsupported) {
		t.Errorf("expected ErrRollbackUnsupported, got %v", err)
	}

	if err := e.DeleteShop(ctx, "admin", "new.yml"); err != nil {
		t.Fatalf("DeleteShop: %v", err)
	}
	deletion := log.Entries()[0]
	if err := e.Rollback(ctx, "admin", deletion.ID); !errors.Is(err, ErrRollbackUnsupported) {
		t.Errorf("expected ErrRollbackUnsupported, got %v", err)
	}
}
