package backup

import (
	"errors"
	"reflect"
	"testing"

	"github.com/siplog/siplog/internal/drink"
)

func TestSnapshotRoundTrip(t *testing.T) {
	presets := drink.DefaultPresets()
	presets.Menus["五十嵐"] = []drink.MenuItem{{Name: "四季春", Price: 30}}
	presets.Toppings = []drink.MenuItem{{Name: "珍珠", Price: 10}}

	records := []drink.Record{{
		ID: 1, Date: "2026-08-30", Shop: "五十嵐", Item: "四季春",
		PriceOriginal: 30, FinalCost: 30,
		Toppings: []drink.Topping{}, Sugar: "半糖", Ice: "少冰",
	}}

	snap := NewSnapshot(records, presets, 2)
	data, err := snap.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, snap) {
		t.Fatalf("round trip drifted:\nwant %+v\ngot  %+v", snap, parsed)
	}
}

func TestParseSnapshotLooseFallback(t *testing.T) {
	// Unknown version tag, but records and presets are both present.
	doc := `{"version":"v18","records":[],"presets":{"menus":{}},"themeIndex":1}`

	snap, err := ParseSnapshot([]byte(doc))
	if err != nil {
		t.Fatalf("loose fallback should accept the document: %v", err)
	}
	if snap.ThemeIndex != 1 {
		t.Fatalf("themeIndex lost: %+v", snap)
	}
}

func TestParseSnapshotRejectsUnknownShape(t *testing.T) {
	cases := []string{
		`{"version":"v7","records":[]}`,
		`{"foo":"bar"}`,
		`not json at all`,
		`[1,2,3]`,
	}
	for _, doc := range cases {
		if _, err := ParseSnapshot([]byte(doc)); !errors.Is(err, ErrUnsupportedSnapshot) {
			t.Fatalf("expected ErrUnsupportedSnapshot for %q, got %v", doc, err)
		}
	}
}

func TestParseSnapshotDegradesMalformedSections(t *testing.T) {
	// Known version with a malformed records field and missing presets:
	// both degrade to empty values instead of failing the import.
	doc := `{"version":"v20","records":"corrupted"}`

	snap, err := ParseSnapshot([]byte(doc))
	if err != nil {
		t.Fatalf("parse should degrade gracefully: %v", err)
	}
	if len(snap.Records) != 0 {
		t.Fatalf("expected empty records, got %+v", snap.Records)
	}
	if snap.Presets.Menus == nil || snap.Presets.Toppings == nil {
		t.Fatalf("presets should default to empty collections: %+v", snap.Presets)
	}
}

func TestParseSnapshotBackfillsRecordFields(t *testing.T) {
	doc := `{"version":"v20","records":[{"id":3,"date":"2024-02-01","shop":"清心","item":"烏龍綠","priceOriginal":30,"finalCost":30}],"presets":{}}`

	snap, err := ParseSnapshot([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(snap.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(snap.Records))
	}
	r := snap.Records[0]
	if r.IsEco || r.IsTreat || r.Toppings == nil || len(r.Toppings) != 0 {
		t.Fatalf("old-schema record not backfilled: %+v", r)
	}
}
