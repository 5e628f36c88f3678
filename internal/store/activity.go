package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// ReplaceActivityLog overwrites the persisted activity log with the given
// entries, newest first. The whole log is bounded and small, so a full
// replace per change is cheaper than reconciling.
func ReplaceActivityLog(ctx context.Context, db *sql.DB, entries []model.ActivityLogEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting activity log transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_log`); err != nil {
		return fmt.Errorf("clearing activity log: %w", err)
	}

	for pos, e := range entries {
		before, err := marshalSnapshot(e.Before)
		if err != nil {
			return fmt.Errorf("encoding entry %q: %w", e.ID, err)
		}
		after, err := marshalSnapshot(e.After)
		if err != nil {
			return fmt.Errorf("encoding entry %q: %w", e.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO activity_log (id, position, timestamp, username, action, target, before_data, after_data, details)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, pos, e.Timestamp, e.Username, e.Action, e.Target, before, after, e.Details,
		)
		if err != nil {
			return fmt.Errorf("storing entry %q: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing activity log: %w", err)
	}
	return nil
}

// LoadActivityLog returns the persisted entries, newest first.
func LoadActivityLog(ctx context.Context, db *sql.DB) ([]model.ActivityLogEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, timestamp, username, action, target, before_data, after_data, details
		 FROM activity_log ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("loading activity log: %w", err)
	}
	defer rows.Close()

	var entries []model.ActivityLogEntry
	for rows.Next() {
		var e model.ActivityLogEntry
		var before, after sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Username, &e.Action, &e.Target, &before, &after, &e.Details); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}
		if e.Before, err = unmarshalSnapshot(before); err != nil {
			return nil, fmt.Errorf("decoding entry %q: %w", e.ID, err)
		}
		if e.After, err = unmarshalSnapshot(after); err != nil {
			return nil, fmt.Errorf("decoding entry %q: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func marshalSnapshot(s model.Snapshot) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalSnapshot(ns sql.NullString) (model.Snapshot, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var s model.Snapshot
	if err := json.Unmarshal([]byte(ns.String), &s); err != nil {
		return nil, err
	}
	return s, nil
}

// ActivitySink persists the in-memory activity log to the database.
type ActivitySink struct {
	DB *sql.DB
}

// Persist writes the full log, replacing what was stored before.
func (s ActivitySink) Persist(ctx context.Context, entries []model.ActivityLogEntry) error {
	return ReplaceActivityLog(ctx, s.DB, entries)
}
