package drink

import (
	"sync"
	"time"
)

// EcoDiscount is the flat reward for bringing a reusable cup.
const EcoDiscount = 5

// FinalCost applies the cost rule to a record's price, toppings and flags.
// A treated drink costs nothing regardless of other fields; an eco cup takes
// a flat discount off the topped-up price, floored at zero. The result is
// stored on the record at save time and never re-derived afterwards.
func FinalCost(priceOriginal int, toppings []Topping, isEco, isTreat bool) int {
	cost := priceOriginal
	for _, t := range toppings {
		count := t.Count
		if count < 1 {
			count = 1
		}
		cost += t.Price * count
	}

	if isTreat {
		return 0
	}
	if isEco {
		cost -= EcoDiscount
		if cost < 0 {
			cost = 0
		}
	}
	return cost
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NextID returns a fresh record id derived from the millisecond clock,
// strictly increasing within the process so two saves in the same
// millisecond cannot collide.
func NextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
