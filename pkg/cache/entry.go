// Package cache provides the persisted read-through cache for api-football
// responses: request-key normalization, the TTL policy table, and pluggable
// store backends (relational via GORM, Redis).
package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached payload, identified by (SubjectID, DataType, Season).
// At most one live row exists per identity tuple; writes upsert. Entries are
// never explicitly deleted, only superseded by a later write.
type Entry struct {
	// SubjectID is the team or player id the payload belongs to.
	SubjectID int64 `json:"subject_id"`

	// DataType is the sub-fetch class (squad, standings, ...).
	DataType DataType `json:"data_type"`

	// Season is the season year for seasoned data types, nil for data
	// that is not season-scoped (squads, profiles, transfer history).
	Season *int `json:"season,omitempty"`

	// Payload is the opaque JSON blob taken from the provider's
	// response array.
	Payload json.RawMessage `json:"payload"`

	// UpdatedAt is when the payload was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.UpdatedAt)
}

// FreshWithin reports whether the entry is younger than the given TTL.
// The boundary itself counts as stale: age == ttl triggers a refresh.
func (e *Entry) FreshWithin(now time.Time, ttl time.Duration) bool {
	return e.Age(now) < ttl
}

// SeasonValue returns the season year, or 0 for seasonless entries.
func (e *Entry) SeasonValue() int {
	if e.Season == nil {
		return 0
	}
	return *e.Season
}
