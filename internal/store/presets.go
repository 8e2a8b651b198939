package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/siplog/siplog/internal/database"
	"github.com/siplog/siplog/internal/drink"
)

var presetLog = logrus.WithField("module", "store.presets")

// PresetStore owns shop menus, the topping catalog and the default sugar/ice
// preferences.
type PresetStore struct {
	repo *database.SlotRepository

	mu      sync.RWMutex
	presets drink.Presets
	subs    []func()
}

// NewPresetStore creates a PresetStore over the given slot repository.
func NewPresetStore(repo *database.SlotRepository) *PresetStore {
	return &PresetStore{repo: repo, presets: drink.DefaultPresets()}
}

// Subscribe registers a callback invoked after every persisted mutation.
func (s *PresetStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Load merges persisted data over the hard-coded defaults so fields missing
// from older persisted versions still resolve. The topping catalog is deduped
// by name, first occurrence wins. Unreadable data starts the store empty.
func (s *PresetStore) Load(ctx context.Context) error {
	raw, ok, err := s.repo.Get(ctx, database.SlotPresets)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.presets = drink.DefaultPresets()
	if !ok {
		return nil
	}

	var stored drink.Presets
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		presetLog.WithError(err).Warn("preset slot is unreadable, using defaults")
		return nil
	}

	if stored.Menus != nil {
		s.presets.Menus = stored.Menus
	}
	if stored.Toppings != nil {
		s.presets.Toppings = dedupeToppings(stored.Toppings)
	}
	if stored.DefaultSugar != "" {
		s.presets.DefaultSugar = stored.DefaultSugar
	}
	if stored.DefaultIce != "" {
		s.presets.DefaultIce = stored.DefaultIce
	}
	return nil
}

// Presets returns a copy of the current configuration.
func (s *PresetStore) Presets() drink.Presets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePresets(s.presets)
}

// LearnMenu appends {item, price} to a shop's menu when the shop has no
// entry of that name yet, creating the shop if absent. Idempotent per
// (shop, item) pair; price drift on an existing item does not update it.
func (s *PresetStore) LearnMenu(ctx context.Context, shop, item string, price int) error {
	s.mu.Lock()
	menu := s.presets.Menus[shop]
	for _, m := range menu {
		if m.Name == item {
			s.mu.Unlock()
			return nil
		}
	}
	s.presets.Menus[shop] = append(menu, drink.MenuItem{Name: item, Price: price})
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// AddShop creates an empty menu for a new shop name. No-op if present.
func (s *PresetStore) AddShop(ctx context.Context, name string) error {
	s.mu.Lock()
	if _, exists := s.presets.Menus[name]; exists {
		s.mu.Unlock()
		return nil
	}
	s.presets.Menus[name] = []drink.MenuItem{}
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// DeleteShop removes a shop and its entire menu.
func (s *PresetStore) DeleteShop(ctx context.Context, name string) error {
	s.mu.Lock()
	delete(s.presets.Menus, name)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// UpdateShopItems wholesale-replaces one shop's menu list.
func (s *PresetStore) UpdateShopItems(ctx context.Context, shop string, items []drink.MenuItem) error {
	s.mu.Lock()
	s.presets.Menus[shop] = append([]drink.MenuItem(nil), items...)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// PresetUpdate carries the fields of UpdatePresets; nil fields are left
// untouched.
type PresetUpdate struct {
	Menus        map[string][]drink.MenuItem
	Toppings     []drink.MenuItem
	DefaultSugar *string
	DefaultIce   *string
}

// UpdatePresets shallow-merges the provided fields into the current state.
// Used for preference edits and for the merge commit of preset data.
func (s *PresetStore) UpdatePresets(ctx context.Context, update PresetUpdate) error {
	s.mu.Lock()
	if update.Menus != nil {
		s.presets.Menus = update.Menus
	}
	if update.Toppings != nil {
		s.presets.Toppings = dedupeToppings(update.Toppings)
	}
	if update.DefaultSugar != nil {
		s.presets.DefaultSugar = *update.DefaultSugar
	}
	if update.DefaultIce != nil {
		s.presets.DefaultIce = *update.DefaultIce
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

func (s *PresetStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.presets)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, database.SlotPresets, string(data))
}

func (s *PresetStore) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

func dedupeToppings(toppings []drink.MenuItem) []drink.MenuItem {
	seen := make(map[string]bool, len(toppings))
	out := make([]drink.MenuItem, 0, len(toppings))
	for _, t := range toppings {
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}

func clonePresets(p drink.Presets) drink.Presets {
	out := p
	out.Menus = make(map[string][]drink.MenuItem, len(p.Menus))
	for shop, items := range p.Menus {
		out.Menus[shop] = append([]drink.MenuItem(nil), items...)
	}
	out.Toppings = append([]drink.MenuItem(nil), p.Toppings...)
	return out
}
