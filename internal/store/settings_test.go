package store

import (
	"context"
	"testing"
)

func TestSettingsStoreUnwrittenByDefault(t *testing.T) {
	s := NewSettingsStore(newTestRepo(t))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Written() {
		t.Fatalf("fresh settings slot should be unwritten")
	}
	if got := s.Settings(); got.ThemeIndex != 0 {
		t.Fatalf("expected zero settings, got %+v", got)
	}
}

func TestSettingsStoreSaveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s := NewSettingsStore(repo)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := s.Save(ctx, Settings{ThemeIndex: 3, VisibleCharts: []string{"chart-overview"}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewSettingsStore(repo)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.Written() {
		t.Fatalf("expected written slot")
	}
	got := reloaded.Settings()
	if got.ThemeIndex != 3 || len(got.VisibleCharts) != 1 {
		t.Fatalf("unexpected settings: %+v", got)
	}
}
