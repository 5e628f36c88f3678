package editor

import (
	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// noteChange appends an unsaved-change note for a recorded activity entry.
func (e *Editor) noteChange(entry model.ActivityLogEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, model.UnsavedChange{
		Action:      entry.Action,
		Target:      entry.Target,
		Description: activity.Summarize(entry),
	})
}

// PendingChanges returns the changes made since the last explicit save,
// oldest first.
func (e *Editor) PendingChanges() []model.UnsavedChange {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.UnsavedChange(nil), e.pending...)
}

// HasUnsavedChanges reports whether anything changed since the last save.
func (e *Editor) HasUnsavedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending) > 0
}

// SaveAll forces every scheduled write to disk and clears the unsaved-change
// list, returning what was saved.
func (e *Editor) SaveAll() []model.UnsavedChange {
	e.mu.Lock()
	saved := append([]model.UnsavedChange(nil), e.pending...)
	e.mu.Unlock()

	e.saver.flush()

	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
	return saved
}

// drainSaved clears the unsaved-change list once the auto-saver has gone
// idle with every write on disk.
func (e *Editor) drainSaved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
}
