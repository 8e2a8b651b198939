package usecase

import (
	"context"
	"reflect"
	"testing"

	"github.com/siplog/siplog/internal/backup"
	"github.com/siplog/siplog/internal/database"
	"github.com/siplog/siplog/internal/drink"
	"github.com/siplog/siplog/internal/store"
)

func newTestSync(t *testing.T) (*Sync, *store.RecordStore, *store.PresetStore) {
	t.Helper()

	dbCtx, err := database.CreateDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.CloseDatabase(dbCtx)
	})

	repo := database.NewSlotRepository(dbCtx)
	records := store.NewRecordStore(repo)
	presets := store.NewPresetStore(repo)
	settings := store.NewSettingsStore(repo)

	ctx := context.Background()
	for _, load := range []func(context.Context) error{records.Load, presets.Load, settings.Load} {
		if err := load(ctx); err != nil {
			t.Fatalf("load failed: %v", err)
		}
	}

	return NewSync(records, presets, settings), records, presets
}

func syncRecord(id int64, date, item string) drink.Record {
	return drink.Record{
		ID: id, Date: date, Shop: "五十嵐", Item: item,
		PriceOriginal: 50, FinalCost: 50,
		Toppings: []drink.Topping{}, Sugar: "半糖", Ice: "少冰",
	}
}

func TestPreviewDoesNotMutateStores(t *testing.T) {
	s, records, _ := newTestSync(t)
	ctx := context.Background()

	if err := records.Add(ctx, syncRecord(1, "2026-08-01", "本機")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	incoming := backup.NewSnapshot([]drink.Record{syncRecord(2, "2026-08-02", "雲端")}, drink.DefaultPresets(), 0)
	stats := s.Preview(incoming)

	if stats.NewRecords != 1 || stats.Conflicts != 0 {
		t.Fatalf("unexpected preview stats: %+v", stats)
	}
	if got := records.Records(); len(got) != 1 {
		t.Fatalf("preview mutated the record store: %d records", len(got))
	}
}

func TestCommitAppliesMergeOnce(t *testing.T) {
	s, records, presets := newTestSync(t)
	ctx := context.Background()

	local := syncRecord(1, "2026-08-01", "本機版本")
	if err := records.Add(ctx, local); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	incomingPresets := drink.DefaultPresets()
	incomingPresets.Menus["清心"] = []drink.MenuItem{{Name: "冬瓜茶", Price: 25}}
	incoming := backup.NewSnapshot(
		[]drink.Record{syncRecord(1, "2026-08-01", "雲端版本"), syncRecord(2, "2026-08-02", "新紀錄")},
		incomingPresets, 0)

	stats, err := s.Commit(ctx, incoming)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if stats.NewRecords != 1 || stats.Conflicts != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	got := records.Records()
	if len(got) != 2 {
		t.Fatalf("expected 2 records after commit, got %d", len(got))
	}
	for _, r := range got {
		if r.ID == 1 && r.Item != "本機版本" {
			t.Fatalf("local-wins violated: %+v", r)
		}
	}
	if _, exists := presets.Presets().Menus["清心"]; !exists {
		t.Fatalf("new shop not committed")
	}
}

func TestCommitIdempotentAgainstSamePayload(t *testing.T) {
	s, records, presets := newTestSync(t)
	ctx := context.Background()

	incoming := backup.NewSnapshot(
		[]drink.Record{syncRecord(1, "2026-08-01", "a"), syncRecord(2, "2026-08-02", "b")},
		drink.DefaultPresets(), 0)

	if _, err := s.Commit(ctx, incoming); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	afterFirstRecords := records.Records()
	afterFirstPresets := presets.Presets()

	stats, err := s.Commit(ctx, incoming)
	if err != nil {
		t.Fatalf("second commit failed: %v", err)
	}
	if stats.NewRecords != 0 {
		t.Fatalf("re-commit should add nothing, got %d new", stats.NewRecords)
	}
	if !reflect.DeepEqual(afterFirstRecords, records.Records()) {
		t.Fatalf("records drifted on re-commit")
	}
	if !reflect.DeepEqual(afterFirstPresets, presets.Presets()) {
		t.Fatalf("presets drifted on re-commit")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, records, presets := newTestSync(t)
	ctx := context.Background()

	if err := records.Add(ctx, syncRecord(1, "2026-08-01", "四季春")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := presets.LearnMenu(ctx, "五十嵐", "四季春", 30); err != nil {
		t.Fatalf("learn failed: %v", err)
	}

	exported := s.ExportSnapshot()
	data, err := exported.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Import into a completely empty second database.
	fresh, freshRecords, freshPresets := newTestSync(t)
	parsed, err := backup.ParseSnapshot(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	stats, err := fresh.Commit(ctx, parsed)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if stats.Conflicts != 0 || stats.NewRecords != 1 {
		t.Fatalf("round trip should be all-new: %+v", stats)
	}
	if !reflect.DeepEqual(freshRecords.Records(), records.Records()) {
		t.Fatalf("records did not round-trip")
	}
	if !reflect.DeepEqual(freshPresets.Presets(), presets.Presets()) {
		t.Fatalf("presets did not round-trip")
	}
}
