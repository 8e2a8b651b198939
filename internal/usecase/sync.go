// Package usecase wires the stores, the merge engine and the snapshot codec
// into the operations the CLI and MCP surfaces expose.
package usecase

import (
	"context"

	"github.com/siplog/siplog/internal/backup"
	"github.com/siplog/siplog/internal/merge"
	"github.com/siplog/siplog/internal/store"
)

// Sync performs snapshot export, import preview and merge commit against the
// live stores.
type Sync struct {
	records  *store.RecordStore
	presets  *store.PresetStore
	settings *store.SettingsStore
}

// NewSync creates a Sync over loaded stores.
func NewSync(records *store.RecordStore, presets *store.PresetStore, settings *store.SettingsStore) *Sync {
	return &Sync{records: records, presets: presets, settings: settings}
}

// ExportSnapshot assembles the full local snapshot.
func (s *Sync) ExportSnapshot() backup.Snapshot {
	return backup.NewSnapshot(s.records.Records(), s.presets.Presets(), s.settings.Settings().ThemeIndex)
}

// Preview dry-runs the merge of an incoming snapshot and returns the
// statistics without touching any store. The caller must commit the same
// parsed snapshot it previewed, not a re-fetched one.
func (s *Sync) Preview(incoming backup.Snapshot) merge.Stats {
	result := merge.Run(s.records.Records(), s.presets.Presets(), incoming.Records, incoming.Presets)
	return result.Stats
}

// Commit merges the incoming snapshot into the stores and persists the
// result. Records are replaced wholesale with the merged set; presets are
// updated through the store's shallow merge. The incoming theme index is
// adopted only when no local settings were ever written. Re-committing the
// same snapshot is a no-op by construction (local-wins on every id).
func (s *Sync) Commit(ctx context.Context, incoming backup.Snapshot) (merge.Stats, error) {
	result := merge.Run(s.records.Records(), s.presets.Presets(), incoming.Records, incoming.Presets)

	if err := s.records.ReplaceAll(ctx, result.Records); err != nil {
		return result.Stats, err
	}

	update := store.PresetUpdate{
		Menus:    result.Presets.Menus,
		Toppings: result.Presets.Toppings,
	}
	update.DefaultSugar = &result.Presets.DefaultSugar
	update.DefaultIce = &result.Presets.DefaultIce
	if err := s.presets.UpdatePresets(ctx, update); err != nil {
		return result.Stats, err
	}

	if !s.settings.Written() {
		if err := s.settings.Save(ctx, store.Settings{ThemeIndex: incoming.ThemeIndex}); err != nil {
			return result.Stats, err
		}
	}

	return result.Stats, nil
}
