// Package drink defines the domain types for logged beverage purchases and
// the preset configuration used to pre-fill them.
package drink

// Topping attr modifiers. Cosmetic only, no price effect.
const (
	AttrNormal = "正常"
	AttrMore   = "多"
	AttrLess   = "少"
)

// Hard-coded preference defaults, used when neither the local nor an imported
// dataset provides a value.
const (
	DefaultSugar = "半糖"
	DefaultIce   = "少冰"
)

// SugarOptions and IceOptions are the fixed option sets offered at entry
// time. Records keep whatever string they were saved with; the sets are not
// enforced after the fact.
var (
	SugarOptions = []string{"正常糖", "少糖", "半糖", "微糖", "無糖"}
	IceOptions   = []string{"正常冰", "少冰", "微冰", "去冰", "熱"}
	AttrOptions  = []string{AttrNormal, AttrMore, AttrLess}
)

// Topping is an addable item on a record. Order within a record is addition
// order.
type Topping struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Count int    `json:"count"`
	Attr  string `json:"attr"`
}

// Record is one logged beverage purchase.
type Record struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"` // YYYY-MM-DD
	Shop          string    `json:"shop"`
	Item          string    `json:"item"`
	PriceOriginal int       `json:"priceOriginal"`
	FinalCost     int       `json:"finalCost"`
	Toppings      []Topping `json:"toppings"`
	Sugar         string    `json:"sugar"`
	Ice           string    `json:"ice"`
	IsEco         bool      `json:"isEco"`
	IsTreat       bool      `json:"isTreat"`
}

// MenuItem is one entry of a shop menu or of the topping catalog.
type MenuItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Presets is the reusable configuration used to pre-fill new records.
type Presets struct {
	Menus        map[string][]MenuItem `json:"menus"`
	Toppings     []MenuItem            `json:"toppings"`
	DefaultSugar string                `json:"defaultSugar"`
	DefaultIce   string                `json:"defaultIce"`
}

// DefaultPresets returns the hard-coded first-use configuration.
func DefaultPresets() Presets {
	return Presets{
		Menus:        map[string][]MenuItem{},
		Toppings:     []MenuItem{},
		DefaultSugar: DefaultSugar,
		DefaultIce:   DefaultIce,
	}
}

// ValidSugar reports whether s is one of the entry-time sugar options.
func ValidSugar(s string) bool { return contains(SugarOptions, s) }

// ValidIce reports whether s is one of the entry-time ice options.
func ValidIce(s string) bool { return contains(IceOptions, s) }

// ValidAttr reports whether s is a topping attr modifier.
func ValidAttr(s string) bool { return contains(AttrOptions, s) }

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
