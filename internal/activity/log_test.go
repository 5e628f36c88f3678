package activity

import (
	"context"
	"fmt"
	"testing"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

type captureSink struct {
	persisted [][]model.ActivityLogEntry
}

func (s *captureSink) Persist(_ context.Context, entries []model.ActivityLogEntry) error {
	s.persisted = append(s.persisted, entries)
	return nil
}

func TestRecordPrependsNewestFirst(t *testing.T) {
	log := NewLog(nil)
	ctx := context.Background()

	log.Record(ctx, "admin", model.ActionCreated, model.TargetShopItem, nil, model.Snapshot{"name": "first"}, "")
	log.Record(ctx, "admin", model.ActionCreated, model.TargetShopItem, nil, model.Snapshot{"name": "second"}, "")

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].After["name"] != "second" {
		t.Errorf("expected newest first, got %v", entries[0].After)
	}
}

func TestRecordBoundsLogTo100(t *testing.T) {
	log := NewLog(nil)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		log.Record(ctx, "admin", model.ActionUpdated, model.TargetShopItem,
			nil, model.Snapshot{"n": i}, "")
	}

	entries := log.Entries()
	if len(entries) != model.MaxLogEntries {
		t.Fatalf("expected %d entries, got %d", model.MaxLogEntries, len(entries))
	}
	// Newest first: 149 down to 50.
	if entries[0].After["n"] != 149 {
		t.Errorf("newest entry: got %v", entries[0].After["n"])
	}
	if entries[len(entries)-1].After["n"] != 50 {
		t.Errorf("oldest kept entry: got %v", entries[len(entries)-1].After["n"])
	}
}

func TestRecordDeepCopiesSnapshots(t *testing.T) {
	log := NewLog(nil)
	live := model.Snapshot{
		"name": "before-edit",
		"lore": []string{"line one"},
	}

	entry := log.Record(context.Background(), "admin", model.ActionUpdated, model.TargetShopItem, live, nil, "")

	live["name"] = "mutated"
	live["lore"].([]string)[0] = "mutated"

	if entry.Before["name"] != "before-edit" {
		t.Errorf("snapshot aliased live map: %v", entry.Before["name"])
	}
	if entry.Before["lore"].([]string)[0] != "line one" {
		t.Errorf("snapshot aliased live slice: %v", entry.Before["lore"])
	}
}

func TestRecordPersistsThroughSink(t *testing.T) {
	sink := &captureSink{}
	log := NewLog(sink)

	log.Record(context.Background(), "admin", model.ActionCreated, model.TargetShopItem, nil, nil, "")
	if len(sink.persisted) != 1 || len(sink.persisted[0]) != 1 {
		t.Fatalf("expected one persisted snapshot of one entry, got %+v", sink.persisted)
	}
}

func TestEntryIDsUnique(t *testing.T) {
	log := NewLog(nil)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		e := log.Record(context.Background(), "admin", model.ActionCreated, model.TargetShopItem, nil, nil, "")
		if seen[e.ID] {
			t.Fatalf("duplicate entry id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestClear(t *testing.T) {
	sink := &captureSink{}
	log := NewLog(sink)
	log.Record(context.Background(), "admin", model.ActionCreated, model.TargetShopItem, nil, nil, "")

	if err := log.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(log.Entries()) != 0 {
		t.Error("expected empty log after clear")
	}
	last := sink.persisted[len(sink.persisted)-1]
	if len(last) != 0 {
		t.Errorf("expected empty persisted log, got %d entries", len(last))
	}
}

func TestDiff(t *testing.T) {
	before := model.Snapshot{"name": "old", "price": 10.0, "material": "STONE"}
	after := model.Snapshot{"name": "new", "price": 10.0, "amount": 2}

	changes := Diff(before, after)

	want := map[string]bool{"name": true, "material": true, "amount": true}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %+v", len(want), changes)
	}
	for _, c := range changes {
		if !want[c.Field] {
			t.Errorf("unexpected change for %q", c.Field)
		}
	}
	// Key order is sorted.
	if changes[0].Field != "amount" || changes[1].Field != "material" || changes[2].Field != "name" {
		t.Errorf("changes not in key order: %+v", changes)
	}
}

func TestDiffEqualSnapshots(t *testing.T) {
	s := model.Snapshot{"lore": []string{"a", "b"}, "price": 5.0}
	if changes := Diff(s, model.CloneSnapshot(s)); len(changes) != 0 {
		t.Errorf("expected no changes, got %+v", changes)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		entry model.ActivityLogEntry
		want  string
	}{
		{
			model.ActivityLogEntry{
				Action: model.ActionCreated,
				Target: model.TargetShopItem,
				After:  model.Snapshot{"name": "&bGem"},
			},
			"Added item '&bGem'",
		},
		{
			model.ActivityLogEntry{
				Action:  model.ActionDeleted,
				Target:  model.TargetShopItem,
				Before:  model.Snapshot{"material": "STONE"},
				Details: "blocks.yml",
			},
			"Removed item STONE in blocks.yml",
		},
		{
			model.ActivityLogEntry{
				Action: model.ActionUpdated,
				Target: model.TargetMenuButton,
				After:  model.Snapshot{"key": "blocks"},
			},
			"Updated menu button 'blocks'",
		},
		{
			model.ActivityLogEntry{Action: model.ActionUpdated, Target: model.TargetSellSettings},
			"Updated sell menu settings",
		},
		// Unknown combinations fall back, never error.
		{
			model.ActivityLogEntry{Action: "renamed", Target: "galaxy"},
			"Made changes",
		},
		{
			model.ActivityLogEntry{Action: model.ActionDeleted, Target: model.TargetSellSettings},
			"Made changes",
		},
	}

	for i, tt := range tests {
		if got := Summarize(tt.entry); got != tt.want {
			t.Errorf("case %d: got %q, want %q", i, got, tt.want)
		}
	}
}

func TestSeedTruncates(t *testing.T) {
	log := NewLog(nil)
	entries := make([]model.ActivityLogEntry, 120)
	for i := range entries {
		entries[i] = model.ActivityLogEntry{ID: fmt.Sprintf("e%d", i)}
	}
	log.Seed(entries)
	if got := len(log.Entries()); got != model.MaxLogEntries {
		t.Errorf("expected %d entries after seed, got %d", model.MaxLogEntries, got)
	}
}
