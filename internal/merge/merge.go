// Package merge reconciles the local dataset with an externally supplied one
// (a cloud restore or an imported file). All functions are pure: nothing is
// persisted until the caller commits the result through the stores.
package merge

import (
	"sort"

	"github.com/siplog/siplog/internal/drink"
)

// Stats summarizes what a merge would do. It is what the preview surface
// shows before the user confirms the commit.
type Stats struct {
	TotalIncoming int      `json:"totalIncoming"`
	NewRecords    int      `json:"newRecords"`
	Conflicts     int      `json:"conflicts"`
	NewShops      []string `json:"newShops"`
	NewToppings   []string `json:"newToppings"`
	DateFrom      string   `json:"dateFrom"`
	DateTo        string   `json:"dateTo"`
}

// Result is the full output of a merge run.
type Result struct {
	Records []drink.Record
	Presets drink.Presets
	Stats   Stats
}

// Run merges the incoming dataset into the local one and reports statistics.
// The conflict policy is local-wins: a record id present on both sides keeps
// the local version in full, so re-importing an already-merged payload is a
// no-op.
func Run(localRecords []drink.Record, localPresets drink.Presets, incomingRecords []drink.Record, incomingPresets drink.Presets) Result {
	records, newCount, conflicts := Records(localRecords, incomingRecords)
	presets, newShops, newToppings := Presets(localPresets, incomingPresets)

	stats := Stats{
		TotalIncoming: len(incomingRecords),
		NewRecords:    newCount,
		Conflicts:     conflicts,
		NewShops:      newShops,
		NewToppings:   newToppings,
	}
	stats.DateFrom, stats.DateTo = dateSpan(incomingRecords)

	return Result{Records: records, Presets: presets, Stats: stats}
}

// Records merges two record collections keyed by id, local entries
// overwriting incoming entries that share an id. Incoming records without an
// id are skipped. The result is sorted by date descending; the sort is
// stable, so equal dates keep insertion order.
func Records(local, incoming []drink.Record) (merged []drink.Record, newCount, conflicts int) {
	localIDs := make(map[int64]bool, len(local))
	for _, r := range local {
		if r.ID != 0 {
			localIDs[r.ID] = true
		}
	}

	byID := make(map[int64]drink.Record, len(local)+len(incoming))
	order := make([]int64, 0, len(local)+len(incoming))

	for _, r := range incoming {
		if r.ID == 0 {
			continue
		}
		if localIDs[r.ID] {
			conflicts++
		} else {
			newCount++
		}
		if _, seen := byID[r.ID]; !seen {
			order = append(order, r.ID)
		}
		byID[r.ID] = r
	}

	for _, r := range local {
		if r.ID == 0 {
			continue
		}
		if _, seen := byID[r.ID]; !seen {
			order = append(order, r.ID)
		}
		byID[r.ID] = r
	}

	merged = make([]drink.Record, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})
	return merged, newCount, conflicts
}

// Presets merges preset configurations with set-union semantics, never
// destructively. Local shop menus win on name collision; shops absent
// locally are imported wholesale. Toppings are unioned by name with the
// local price winning. Scalars keep the local value when non-empty, then the
// incoming one, then the hard-coded default.
func Presets(local, incoming drink.Presets) (merged drink.Presets, newShops, newToppings []string) {
	merged.Menus = make(map[string][]drink.MenuItem, len(local.Menus)+len(incoming.Menus))
	for shop, items := range local.Menus {
		merged.Menus[shop] = append([]drink.MenuItem(nil), items...)
	}
	newShops = []string{}
	for _, shop := range sortedShopNames(incoming.Menus) {
		if _, exists := merged.Menus[shop]; exists {
			continue
		}
		merged.Menus[shop] = append([]drink.MenuItem(nil), incoming.Menus[shop]...)
		newShops = append(newShops, shop)
	}

	merged.Toppings = []drink.MenuItem{}
	seen := make(map[string]bool)
	for _, t := range local.Toppings {
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		merged.Toppings = append(merged.Toppings, t)
	}
	newToppings = []string{}
	for _, t := range incoming.Toppings {
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		merged.Toppings = append(merged.Toppings, t)
		newToppings = append(newToppings, t.Name)
	}

	merged.DefaultSugar = firstNonEmpty(local.DefaultSugar, incoming.DefaultSugar, drink.DefaultSugar)
	merged.DefaultIce = firstNonEmpty(local.DefaultIce, incoming.DefaultIce, drink.DefaultIce)
	return merged, newShops, newToppings
}

func sortedShopNames(menus map[string][]drink.MenuItem) []string {
	names := make([]string, 0, len(menus))
	for name := range menus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dateSpan(records []drink.Record) (from, to string) {
	for _, r := range records {
		if r.Date == "" {
			continue
		}
		if from == "" || r.Date < from {
			from = r.Date
		}
		if to == "" || r.Date > to {
			to = r.Date
		}
	}
	return from, to
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
