package cache

import (
	"testing"
	"time"
)

func TestEntryFreshWithin_Boundary(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	tests := []struct {
		name      string
		updatedAt time.Time
		fresh     bool
	}{
		{"just written", now, true},
		{"one ms inside ttl", now.Add(-ttl + time.Millisecond), true},
		{"exactly at ttl", now.Add(-ttl), false},
		{"one ms past ttl", now.Add(-ttl - time.Millisecond), false},
		{"days old", now.Add(-72 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{UpdatedAt: tt.updatedAt}
			if got := entry.FreshWithin(now, ttl); got != tt.fresh {
				t.Errorf("FreshWithin() = %v, want %v (age %v)", got, tt.fresh, entry.Age(now))
			}
		})
	}
}

func TestEntrySeasonValue(t *testing.T) {
	season := 2025

	entry := &Entry{Season: &season}
	if got := entry.SeasonValue(); got != 2025 {
		t.Errorf("SeasonValue() = %d, want 2025", got)
	}

	seasonless := &Entry{}
	if got := seasonless.SeasonValue(); got != 0 {
		t.Errorf("SeasonValue() = %d, want 0 for nil season", got)
	}
}
