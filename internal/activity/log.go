// Package activity keeps the bounded, append-only audit log of editor
// mutations. Entries are immutable once recorded; reversing one produces a
// new forward entry rather than touching history.
package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Sink persists the full ordered log after each change. A nil sink keeps the
// log in memory only.
type Sink interface {
	Persist(ctx context.Context, entries []model.ActivityLogEntry) error
}

// Log is the in-memory activity log, ordered newest first and bounded to
// model.MaxLogEntries.
type Log struct {
	mu      sync.Mutex
	entries []model.ActivityLogEntry
	sink    Sink
}

// NewLog creates an empty log backed by the given sink.
func NewLog(sink Sink) *Log {
	return &Log{sink: sink}
}

// Seed replaces the in-memory entries with previously persisted ones,
// newest first. Used once at startup.
func (l *Log) Seed(entries []model.ActivityLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > model.MaxLogEntries {
		entries = entries[:model.MaxLogEntries]
	}
	l.entries = append([]model.ActivityLogEntry(nil), entries...)
}

// Record captures one mutation. Snapshots are deep-copied so later edits to
// live state cannot alter history. The entry is prepended, the log truncated
// to the bound and persisted. Record never fails: a sink error is logged and
// the in-memory entry stands.
func (l *Log) Record(ctx context.Context, username, action, target string, before, after model.Snapshot, details string) model.ActivityLogEntry {
	entry := model.ActivityLogEntry{
		ID:        newEntryID(),
		Timestamp: time.Now().UTC(),
		Username:  username,
		Action:    action,
		Target:    target,
		Before:    model.CloneSnapshot(before),
		After:     model.CloneSnapshot(after),
		Details:   details,
	}

	l.mu.Lock()
	l.entries = append([]model.ActivityLogEntry{entry}, l.entries...)
	if len(l.entries) > model.MaxLogEntries {
		l.entries = l.entries[:model.MaxLogEntries]
	}
	snapshot := append([]model.ActivityLogEntry(nil), l.entries...)
	l.mu.Unlock()

	if l.sink != nil {
		if err := l.sink.Persist(ctx, snapshot); err != nil {
			slog.Error("failed to persist activity log", "error", err)
		}
	}

	return entry
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []model.ActivityLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.ActivityLogEntry(nil), l.entries...)
}

// Get returns the entry with the given ID.
func (l *Log) Get(id string) (model.ActivityLogEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.ActivityLogEntry{}, false
}

// Clear drops all entries, in memory and in the sink.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	if l.sink != nil {
		return l.sink.Persist(ctx, nil)
	}
	return nil
}

// newEntryID builds a unique entry ID from the current time and a random
// suffix, so IDs sort roughly chronologically.
func newEntryID() string {
	return time.Now().UTC().Format("20060102150405.000") + "-" + uuid.NewString()[:8]
}
