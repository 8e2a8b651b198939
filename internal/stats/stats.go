// Package stats computes aggregate analytics over the drink record
// collection.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/siplog/siplog/internal/drink"
)

// RankEntry is one row of a ranking: a name with its accumulated value and
// the number of records contributing to it.
type RankEntry struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Cups  int    `json:"cups"`
}

// Summary is the full analytics report for a record set.
type Summary struct {
	TotalSpend   int         `json:"totalSpend"`
	Cups         int         `json:"cups"`
	AveragePrice int         `json:"averagePrice"`
	EcoCups      int         `json:"ecoCups"`
	TreatCups    int         `json:"treatCups"`
	ShopRanking  []RankEntry `json:"shopRanking"`
	ItemRanking  []RankEntry `json:"itemRanking"`
	Toppings     []RankEntry `json:"toppingRanking"`
	Weekdays     [7]int      `json:"weekdays"` // Sunday..Saturday cup counts
}

// Compute builds a Summary over the given records. A non-empty month filter
// ("YYYY-MM") restricts the report to records of that month.
func Compute(records []drink.Record, month string) Summary {
	var s Summary
	shops := map[string]*RankEntry{}
	items := map[string]*RankEntry{}
	toppings := map[string]*RankEntry{}

	for _, r := range records {
		if month != "" && !strings.HasPrefix(r.Date, month) {
			continue
		}

		s.Cups++
		s.TotalSpend += r.FinalCost
		if r.IsEco {
			s.EcoCups++
		}
		if r.IsTreat {
			s.TreatCups++
		}

		bump(shops, r.Shop, r.FinalCost)
		bump(items, r.Item, r.FinalCost)
		for _, t := range r.Toppings {
			count := t.Count
			if count < 1 {
				count = 1
			}
			entry := bump(toppings, t.Name, t.Price*count)
			// A record with 2x pearls still counts as one topped drink,
			// but the cup count should reflect portions.
			entry.Cups += count - 1
		}

		if day, err := time.Parse("2006-01-02", r.Date); err == nil {
			s.Weekdays[int(day.Weekday())]++
		}
	}

	if s.Cups > 0 {
		s.AveragePrice = s.TotalSpend / s.Cups
	}

	s.ShopRanking = ranked(shops)
	s.ItemRanking = ranked(items)
	s.Toppings = ranked(toppings)
	return s
}

func bump(m map[string]*RankEntry, name string, amount int) *RankEntry {
	if name == "" {
		name = "(未填)"
	}
	entry, ok := m[name]
	if !ok {
		entry = &RankEntry{Name: name}
		m[name] = entry
	}
	entry.Total += amount
	entry.Cups++
	return entry
}

func ranked(m map[string]*RankEntry) []RankEntry {
	out := make([]RankEntry, 0, len(m))
	for _, e := range m {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].Cups != out[j].Cups {
			return out[i].Cups > out[j].Cups
		}
		return out[i].Name < out[j].Name
	})
	return out
}
