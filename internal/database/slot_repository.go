package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Slot keys. The version suffix is part of the key, matching the schema tag of
// the payload stored inside; a schema bump gets a fresh slot.
const (
	SlotRecords  = "drinkRecords_v20"
	SlotPresets  = "drinkPresets_v20"
	SlotSettings = "appSettings_v20"
)

// SlotRepository stores opaque JSON blobs under versioned keys. It is the
// durable equivalent of the browser localStorage the record and preset data
// originally lived in.
type SlotRepository struct {
	ctx *Context
}

// NewSlotRepository creates a SlotRepository over an open database context.
func NewSlotRepository(dbCtx *Context) *SlotRepository {
	return &SlotRepository{ctx: dbCtx}
}

// Get returns the raw value stored under key, or ("", false) when the slot
// has never been written.
func (r *SlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return "", false, fmt.Errorf("slot repository: missing database context")
	}

	var value string
	err := r.ctx.DB.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Put overwrites the value stored under key. The write is synchronous: when
// Put returns nil the new value is durable.
func (r *SlotRepository) Put(ctx context.Context, key, value string) error {
	if r.ctx == nil || r.ctx.DB == nil {
		return fmt.Errorf("slot repository: missing database context")
	}

	_, err := r.ctx.DB.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

// Delete removes a slot. Deleting an absent slot is not an error.
func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	if r.ctx == nil || r.ctx.DB == nil {
		return fmt.Errorf("slot repository: missing database context")
	}

	_, err := r.ctx.DB.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", key)
	return err
}
