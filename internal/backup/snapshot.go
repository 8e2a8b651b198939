// Package backup implements the snapshot document format and the client side
// of the cloud backup transport.
package backup

import (
	"encoding/json"
	"errors"

	"github.com/siplog/siplog/internal/drink"
)

// SchemaVersion is the tag written into exported snapshots.
const SchemaVersion = "v20"

// knownVersions lists schema tags accepted without the loose fallback.
var knownVersions = map[string]bool{
	"v20": true,
}

// Snapshot is a complete serialized copy of records, presets and theme
// selection at one point in time. It round-trips exactly through export and
// import.
type Snapshot struct {
	Version    string         `json:"version"`
	Records    []drink.Record `json:"records"`
	Presets    drink.Presets  `json:"presets"`
	ThemeIndex int            `json:"themeIndex"`
}

// ErrUnsupportedSnapshot is returned when a document neither carries a known
// version tag nor looks like a snapshot at all.
var ErrUnsupportedSnapshot = errors.New("unsupported snapshot format")

// NewSnapshot assembles an export document from live store state.
func NewSnapshot(records []drink.Record, presets drink.Presets, themeIndex int) Snapshot {
	if records == nil {
		records = []drink.Record{}
	}
	return Snapshot{
		Version:    SchemaVersion,
		Records:    records,
		Presets:    presets,
		ThemeIndex: themeIndex,
	}
}

// Marshal serializes the snapshot as indented JSON, the on-disk export shape.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseSnapshot validates and types an untrusted snapshot document.
//
// A document is acceptable when its version matches a known tag, or when it
// independently contains both "records" and "presets" keys (loose fallback
// for mildly mismatched tags from older exports). Within an acceptable
// document, a missing or malformed records array or presets object degrades
// to an empty value rather than failing the whole import.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var probe struct {
		Version string          `json:"version"`
		Records json.RawMessage `json:"records"`
		Presets json.RawMessage `json:"presets"`
		Theme   json.RawMessage `json:"themeIndex"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, ErrUnsupportedSnapshot
	}

	if !knownVersions[probe.Version] && (probe.Records == nil || probe.Presets == nil) {
		return Snapshot{}, ErrUnsupportedSnapshot
	}

	snap := Snapshot{Version: probe.Version, Records: []drink.Record{}}

	if probe.Records != nil {
		var records []drink.Record
		if err := json.Unmarshal(probe.Records, &records); err == nil && records != nil {
			for i := range records {
				if records[i].Toppings == nil {
					records[i].Toppings = []drink.Topping{}
				}
			}
			snap.Records = records
		}
	}

	if probe.Presets != nil {
		var presets drink.Presets
		if err := json.Unmarshal(probe.Presets, &presets); err == nil {
			snap.Presets = presets
		}
	}
	if snap.Presets.Menus == nil {
		snap.Presets.Menus = map[string][]drink.MenuItem{}
	}
	if snap.Presets.Toppings == nil {
		snap.Presets.Toppings = []drink.MenuItem{}
	}

	if probe.Theme != nil {
		var theme int
		if err := json.Unmarshal(probe.Theme, &theme); err == nil {
			snap.ThemeIndex = theme
		}
	}

	return snap, nil
}
