// Package store holds the persistent record, preset and settings stores.
// Each store is an explicit service object: construct it once, Load it, and
// every mutation persists the full state synchronously before returning.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/siplog/siplog/internal/database"
	"github.com/siplog/siplog/internal/drink"
)

var recordLog = logrus.WithField("module", "store.records")

// RecordStore owns the collection of drink records. There is one writer per
// process; the mutex covers long-lived consumers such as the MCP server.
type RecordStore struct {
	repo *database.SlotRepository

	mu      sync.RWMutex
	records []drink.Record
	subs    []func()
}

// NewRecordStore creates a RecordStore over the given slot repository.
func NewRecordStore(repo *database.SlotRepository) *RecordStore {
	return &RecordStore{repo: repo}
}

// Subscribe registers a callback invoked after every persisted mutation.
// This replaces reload-the-world cache invalidation: long-lived consumers
// re-read committed state instead of restarting.
func (s *RecordStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Load reads the persisted collection. Records written by older schema
// versions get missing fields backfilled; a deserialization error is logged
// and treated as an empty store rather than propagated.
func (s *RecordStore) Load(ctx context.Context) error {
	raw, ok, err := s.repo.Get(ctx, database.SlotRecords)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		s.records = []drink.Record{}
		return nil
	}

	var records []drink.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		recordLog.WithError(err).Warn("record slot is unreadable, starting empty")
		s.records = []drink.Record{}
		return nil
	}

	for i := range records {
		if records[i].Toppings == nil {
			records[i].Toppings = []drink.Topping{}
		}
	}
	s.records = records
	return nil
}

// Records returns a copy of the current collection.
func (s *RecordStore) Records() []drink.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Get returns the record with the given id, if present.
func (s *RecordStore) Get(id int64) (drink.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return cloneRecord(r), true
		}
	}
	return drink.Record{}, false
}

// Add appends a record and persists. The caller guarantees a fresh id.
func (s *RecordStore) Add(ctx context.Context, record drink.Record) error {
	s.mu.Lock()
	s.records = append(s.records, cloneRecord(record))
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// Update replaces the record whose id matches. An absent id is a silent
// no-op, logged for observability.
func (s *RecordStore) Update(ctx context.Context, record drink.Record) error {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == record.ID {
			s.records[i] = cloneRecord(record)
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		recordLog.WithField("id", record.ID).Debug("update for unknown record id ignored")
		return nil
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// Delete removes the record with the given id and persists. Confirmation is
// the caller's responsibility. Returns whether a record was removed.
func (s *RecordStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	kept := s.records[:0]
	removed := false
	for _, r := range s.records {
		if !removed && r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		s.mu.Unlock()
		return false, nil
	}
	s.records = kept
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return true, err
}

// ReplaceAll unconditionally overwrites the entire collection and persists.
// This is the merge commit entry point.
func (s *RecordStore) ReplaceAll(ctx context.Context, records []drink.Record) error {
	s.mu.Lock()
	s.records = cloneRecords(records)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

func (s *RecordStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, database.SlotRecords, string(data))
}

func (s *RecordStore) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

func cloneRecord(r drink.Record) drink.Record {
	out := r
	out.Toppings = make([]drink.Topping, len(r.Toppings))
	copy(out.Toppings, r.Toppings)
	return out
}

func cloneRecords(records []drink.Record) []drink.Record {
	out := make([]drink.Record, len(records))
	for i, r := range records {
		out[i] = cloneRecord(r)
	}
	return out
}
