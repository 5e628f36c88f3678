package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// MainMenu returns a copy of the main menu state.
func (e *Editor) MainMenu() (*model.MainMenuState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil, ErrNotLoaded
	}
	return e.menu.Clone(), nil
}

// AddButton adds a main menu button. The key must be new and the slot free.
func (e *Editor) AddButton(ctx context.Context, username string, button model.MainMenuButton) error {
	if err := validateButton(button); err != nil {
		return err
	}

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	if e.menu.Button(button.Key) != nil {
		e.mu.Unlock()
		return ErrButtonExists
	}
	if occ := e.slotOccupantLocked(button.Slot, ""); occ != "" {
		e.mu.Unlock()
		return &SlotConflictError{Slot: button.Slot, Occupant: occ}
	}
	e.menu.Buttons = append(e.menu.Buttons, button.Clone())
	after := model.SnapshotButton(button)
	e.scheduleMenuSaveLocked(files.MainMenuFile)
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionCreated, model.TargetMenuButton, nil, after, "")
	e.noteChange(entry)
	return nil
}

// UpdateButton replaces the fields of an existing button, keyed by its YAML key.
func (e *Editor) UpdateButton(ctx context.Context, username, key string, button model.MainMenuButton) error {
	button.Key = key
	if err := validateButton(button); err != nil {
		return err
	}

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	existing := e.menu.Button(key)
	if existing == nil {
		e.mu.Unlock()
		return ErrButtonNotFound
	}
	if occ := e.slotOccupantLocked(button.Slot, key); occ != "" {
		e.mu.Unlock()
		return &SlotConflictError{Slot: button.Slot, Occupant: occ}
	}
	before := model.SnapshotButton(*existing)
	*existing = button.Clone()
	after := model.SnapshotButton(button)
	e.scheduleMenuSaveLocked(files.MainMenuFile)
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionUpdated, model.TargetMenuButton, before, after, "")
	e.noteChange(entry)
	return nil
}

// RemoveButton deletes a main menu button by key.
func (e *Editor) RemoveButton(ctx context.Context, username, key string) error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	idx := -1
	for i := range e.menu.Buttons {
		if e.menu.Buttons[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return ErrButtonNotFound
	}
	before := model.SnapshotButton(e.menu.Buttons[idx])
	e.menu.Buttons = append(e.menu.Buttons[:idx], e.menu.Buttons[idx+1:]...)
	e.scheduleMenuSaveLocked(files.MainMenuFile)
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionDeleted, model.TargetMenuButton, before, nil, "")
	e.noteChange(entry)
	return nil
}

// UpdateMenuSettings changes the main menu title and row count.
func (e *Editor) UpdateMenuSettings(ctx context.Context, username, title string, rows int) error {
	if rows < model.MinMenuRows || rows > model.MaxMenuRows {
		return fmt.Errorf("rows must be between %d and %d", model.MinMenuRows, model.MaxMenuRows)
	}

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	before := model.SnapshotMenuSettings(e.menu)
	e.menu.Title = title
	e.menu.Rows = rows
	after := model.SnapshotMenuSettings(e.menu)
	e.scheduleMenuSaveLocked(files.MainMenuFile)
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionUpdated, model.TargetMenuSettings, before, after, "")
	e.noteChange(entry)
	return nil
}

// slotOccupantLocked names the button occupying a slot, skipping the button
// with the given key. Returns "" when the slot is free. Caller holds e.mu.
func (e *Editor) slotOccupantLocked(slot int, skipKey string) string {
	for i := range e.menu.Buttons {
		b := &e.menu.Buttons[i]
		if b.Key == skipKey {
			continue
		}
		if b.Slot == slot {
			return fmt.Sprintf("button '%s'", b.Key)
		}
	}
	return ""
}

func validateButton(button model.MainMenuButton) error {
	if button.Key == "" {
		return errors.New("button key is required")
	}
	if button.Material == "" {
		return errors.New("button material is required")
	}
	if button.Slot < model.MinSlot || button.Slot > model.MaxSlot {
		return fmt.Errorf("slot must be between %d and %d", model.MinSlot, model.MaxSlot)
	}
	return nil
}
