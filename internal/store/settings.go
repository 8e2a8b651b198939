package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/siplog/siplog/internal/database"
)

var settingsLog = logrus.WithField("module", "store.settings")

// Settings carries the small app-level preferences that ride along in
// snapshots: the selected theme and which charts the stats surface shows.
type Settings struct {
	ThemeIndex    int      `json:"themeIndex"`
	VisibleCharts []string `json:"visibleCharts,omitempty"`
}

// SettingsStore persists the Settings object in its own slot.
type SettingsStore struct {
	repo *database.SlotRepository

	mu       sync.RWMutex
	settings Settings
	written  bool
}

// NewSettingsStore creates a SettingsStore over the given slot repository.
func NewSettingsStore(repo *database.SlotRepository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// Load reads persisted settings; absence or unreadable data yields zero-value
// settings.
func (s *SettingsStore) Load(ctx context.Context) error {
	raw, ok, err := s.repo.Get(ctx, database.SlotSettings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = Settings{}
	s.written = ok
	if !ok {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), &s.settings); err != nil {
		settingsLog.WithError(err).Warn("settings slot is unreadable, using defaults")
		s.settings = Settings{}
		s.written = false
	}
	return nil
}

// Settings returns the current settings.
func (s *SettingsStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.settings
	out.VisibleCharts = append([]string(nil), s.settings.VisibleCharts...)
	return out
}

// Written reports whether the settings slot has ever been persisted. Restore
// only adopts an incoming theme when the local slot was never written.
func (s *SettingsStore) Written() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.written
}

// Save persists the given settings.
func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Put(ctx, database.SlotSettings, string(data)); err != nil {
		return err
	}
	s.settings = settings
	s.written = true
	return nil
}
