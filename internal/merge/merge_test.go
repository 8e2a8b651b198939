package merge

import (
	"reflect"
	"testing"

	"github.com/siplog/siplog/internal/drink"
)

func rec(id int64, date, item string) drink.Record {
	return drink.Record{
		ID:            id,
		Date:          date,
		Shop:          "五十嵐",
		Item:          item,
		PriceOriginal: 50,
		FinalCost:     50,
		Toppings:      []drink.Topping{},
		Sugar:         "半糖",
		Ice:           "少冰",
	}
}

func TestRecordsLocalWinsOnConflict(t *testing.T) {
	local := []drink.Record{rec(1, "2026-01-01", "本機版本")}
	incoming := []drink.Record{rec(1, "2026-01-01", "雲端版本"), rec(2, "2026-01-02", "新紀錄")}

	merged, newCount, conflicts := Records(local, incoming)

	if newCount != 1 || conflicts != 1 {
		t.Fatalf("expected 1 new / 1 conflict, got %d / %d", newCount, conflicts)
	}
	for _, r := range merged {
		if r.ID == 1 && r.Item != "本機版本" {
			t.Fatalf("conflict resolved to incoming record: %+v", r)
		}
	}
}

func TestRecordsNewRecordsArriveUnchanged(t *testing.T) {
	incoming := rec(2, "2026-01-02", "新紀錄")
	incoming.Toppings = []drink.Topping{{Name: "珍珠", Price: 10, Count: 2, Attr: drink.AttrNormal}}
	incoming.FinalCost = 70

	merged, _, _ := Records([]drink.Record{rec(1, "2026-01-01", "舊的")}, []drink.Record{incoming})

	var found *drink.Record
	for i := range merged {
		if merged[i].ID == 2 {
			found = &merged[i]
		}
	}
	if found == nil {
		t.Fatalf("new record missing from merge result")
	}
	if !reflect.DeepEqual(*found, incoming) {
		t.Fatalf("new record altered by merge:\nwant %+v\ngot  %+v", incoming, *found)
	}
}

func TestRecordsSortedByDateDescending(t *testing.T) {
	merged, _, _ := Records(
		[]drink.Record{rec(1, "2026-01-05", "a"), rec(2, "2026-01-01", "b")},
		[]drink.Record{rec(3, "2026-01-03", "c")},
	)

	for i := 1; i < len(merged); i++ {
		if merged[i-1].Date < merged[i].Date {
			t.Fatalf("records not sorted descending: %v before %v", merged[i-1].Date, merged[i].Date)
		}
	}
}

func TestRecordsSkipsZeroIDs(t *testing.T) {
	merged, newCount, conflicts := Records(nil, []drink.Record{{Date: "2026-01-01"}})
	if len(merged) != 0 || newCount != 0 || conflicts != 0 {
		t.Fatalf("zero-id incoming record should be skipped: %v", merged)
	}
}

func TestRunIdempotentOnReimport(t *testing.T) {
	local := []drink.Record{rec(1, "2026-01-01", "本機")}
	localPresets := drink.DefaultPresets()
	localPresets.Menus["五十嵐"] = []drink.MenuItem{{Name: "四季春", Price: 30}}

	incoming := []drink.Record{rec(1, "2026-01-01", "雲端"), rec(2, "2026-01-02", "新")}
	incomingPresets := drink.DefaultPresets()
	incomingPresets.Menus["清心"] = []drink.MenuItem{{Name: "烏龍綠", Price: 30}}
	incomingPresets.Toppings = []drink.MenuItem{{Name: "珍珠", Price: 10}}

	first := Run(local, localPresets, incoming, incomingPresets)
	second := Run(first.Records, first.Presets, incoming, incomingPresets)

	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Fatalf("record merge drifted on re-import:\nfirst  %+v\nsecond %+v", first.Records, second.Records)
	}
	if !reflect.DeepEqual(first.Presets, second.Presets) {
		t.Fatalf("preset merge drifted on re-import:\nfirst  %+v\nsecond %+v", first.Presets, second.Presets)
	}
	if second.Stats.NewRecords != 0 {
		t.Fatalf("re-import should find no new records, got %d", second.Stats.NewRecords)
	}
	if second.Stats.Conflicts != len(incoming) {
		t.Fatalf("re-import should count all incoming as conflicts, got %d", second.Stats.Conflicts)
	}
}

func TestStatsCounts(t *testing.T) {
	local := []drink.Record{rec(1, "2026-01-01", "a"), rec(2, "2026-01-02", "b")}
	incoming := []drink.Record{rec(2, "2026-01-02", "b'"), rec(3, "2026-01-03", "c"), rec(4, "2026-01-04", "d")}

	result := Run(local, drink.DefaultPresets(), incoming, drink.DefaultPresets())

	if result.Stats.TotalIncoming != 3 {
		t.Fatalf("totalIncoming: expected 3, got %d", result.Stats.TotalIncoming)
	}
	if result.Stats.NewRecords != 2 {
		t.Fatalf("newRecords: expected |ids(I)\\ids(L)| = 2, got %d", result.Stats.NewRecords)
	}
	if result.Stats.Conflicts != 1 {
		t.Fatalf("conflicts: expected |ids(I) ∩ ids(L)| = 1, got %d", result.Stats.Conflicts)
	}
	if result.Stats.DateFrom != "2026-01-02" || result.Stats.DateTo != "2026-01-04" {
		t.Fatalf("date span wrong: %s ~ %s", result.Stats.DateFrom, result.Stats.DateTo)
	}
}

func TestPresetsLocalShopWins(t *testing.T) {
	local := drink.DefaultPresets()
	local.Menus["五十嵐"] = []drink.MenuItem{{Name: "四季春", Price: 30}}

	incoming := drink.DefaultPresets()
	incoming.Menus["五十嵐"] = []drink.MenuItem{{Name: "四季春", Price: 99}, {Name: "烏龍", Price: 35}}
	incoming.Menus["清心"] = []drink.MenuItem{{Name: "冬瓜茶", Price: 25}}

	merged, newShops, _ := Presets(local, incoming)

	if len(merged.Menus["五十嵐"]) != 1 || merged.Menus["五十嵐"][0].Price != 30 {
		t.Fatalf("local shop menu should win wholesale: %+v", merged.Menus["五十嵐"])
	}
	if len(merged.Menus["清心"]) != 1 {
		t.Fatalf("absent shop should be imported wholesale: %+v", merged.Menus["清心"])
	}
	if len(newShops) != 1 || newShops[0] != "清心" {
		t.Fatalf("newShops wrong: %v", newShops)
	}
}

func TestPresetsToppingsUnionLocalPriceWins(t *testing.T) {
	local := drink.DefaultPresets()
	local.Toppings = []drink.MenuItem{{Name: "珍珠", Price: 10}}

	incoming := drink.DefaultPresets()
	incoming.Toppings = []drink.MenuItem{{Name: "珍珠", Price: 15}, {Name: "椰果", Price: 10}, {Name: "椰果", Price: 12}}

	merged, _, newToppings := Presets(local, incoming)

	if len(merged.Toppings) != 2 {
		t.Fatalf("expected deduped union of 2, got %+v", merged.Toppings)
	}
	if merged.Toppings[0].Name != "珍珠" || merged.Toppings[0].Price != 10 {
		t.Fatalf("local topping price should win: %+v", merged.Toppings[0])
	}
	if len(newToppings) != 1 || newToppings[0] != "椰果" {
		t.Fatalf("newToppings wrong: %v", newToppings)
	}
}

func TestPresetsScalarFallbackChain(t *testing.T) {
	local := drink.Presets{}
	incoming := drink.Presets{DefaultSugar: "微糖"}

	merged, _, _ := Presets(local, incoming)

	if merged.DefaultSugar != "微糖" {
		t.Fatalf("empty local scalar should take incoming, got %q", merged.DefaultSugar)
	}
	if merged.DefaultIce != drink.DefaultIce {
		t.Fatalf("both empty should take hard-coded default, got %q", merged.DefaultIce)
	}

	local.DefaultSugar = "無糖"
	merged, _, _ = Presets(local, incoming)
	if merged.DefaultSugar != "無糖" {
		t.Fatalf("non-empty local scalar should win, got %q", merged.DefaultSugar)
	}
}

func TestRoundTripIntoEmptyLocal(t *testing.T) {
	records := []drink.Record{rec(2, "2026-01-02", "b"), rec(1, "2026-01-01", "a")}
	presets := drink.DefaultPresets()
	presets.Menus["五十嵐"] = []drink.MenuItem{{Name: "四季春", Price: 30}}
	presets.Toppings = []drink.MenuItem{{Name: "珍珠", Price: 10}}

	result := Run(nil, drink.DefaultPresets(), records, presets)

	if result.Stats.Conflicts != 0 || result.Stats.NewRecords != len(records) {
		t.Fatalf("import into empty store should be all-new: %+v", result.Stats)
	}
	if !reflect.DeepEqual(result.Records, records) {
		t.Fatalf("round trip altered records:\nwant %+v\ngot  %+v", records, result.Records)
	}
	if !reflect.DeepEqual(result.Presets, presets) {
		t.Fatalf("round trip altered presets:\nwant %+v\ngot  %+v", presets, result.Presets)
	}
}
