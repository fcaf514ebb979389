package cache

import (
	"testing"
	"time"
)

func TestTTLFor_BaseTiers(t *testing.T) {
	tests := []struct {
		dataType DataType
		expected time.Duration
	}{
		{DataTypeInfo, TTLSemiStatic},
		{DataTypeLeagues, TTLStatic},
		{DataTypeTransfers, TTLStatic},
		{DataTypeTrophies, TTLStatic},
		{DataTypeSquad, TTLSemiStatic},
		{DataTypeStats, TTLSemiStatic},
		{DataTypePlayerStats, TTLSemiStatic},
		{DataTypeStandings, TTLSemiStatic},
		{DataTypeSeasons, TTLSemiStatic},
		{DataTypeMatches, TTLSemiRealtime},
		{DataTypeFixtures, TTLSemiRealtime},
		{DataTypeInjuries, TTLSemiRealtime},
		{DataTypeRankings, TTLSemiRealtime},
	}

	for _, tt := range tests {
		t.Run(string(tt.dataType), func(t *testing.T) {
			if got := TTLFor(tt.dataType, Context{}); got != tt.expected {
				t.Errorf("TTLFor(%s) = %v, want %v", tt.dataType, got, tt.expected)
			}
		})
	}
}

func TestTTLFor_UnknownTypeFallsBack(t *testing.T) {
	if got := TTLFor(DataType("odds"), Context{}); got != TTLDefault {
		t.Errorf("TTLFor(unknown) = %v, want %v", got, TTLDefault)
	}
}

func TestTTLFor_LiveOverride(t *testing.T) {
	if got := TTLFor(DataTypeStats, Context{Live: true}); got != TTLLive {
		t.Errorf("TTLFor(stats, live) = %v, want %v", got, TTLLive)
	}
}

// Live TTL must never exceed the idle TTL for any data type.
func TestTTLFor_LiveMonotonic(t *testing.T) {
	allTypes := []DataType{
		DataTypeInfo, DataTypeMatches, DataTypeSquad, DataTypeStats,
		DataTypePlayerStats, DataTypeStandings, DataTypeTransfers,
		DataTypeLeagues, DataTypeSeasons, DataTypeFixtures,
		DataTypeTrophies, DataTypeInjuries, DataTypeRankings,
		DataType("unknown"),
	}

	for _, dataType := range allTypes {
		live := TTLFor(dataType, Context{Live: true})
		idle := TTLFor(dataType, Context{})
		if live > idle {
			t.Errorf("TTLFor(%s, live) = %v > TTLFor(%s, idle) = %v",
				dataType, live, dataType, idle)
		}
	}
}

func TestMatchTTL(t *testing.T) {
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   string
		kickoff  time.Time
		expected time.Duration
	}{
		{
			name:     "first half",
			status:   "1H",
			kickoff:  now.Add(-30 * time.Minute),
			expected: TTLLive,
		},
		{
			name:     "halftime",
			status:   "HT",
			kickoff:  now.Add(-50 * time.Minute),
			expected: TTLLive,
		},
		{
			name:     "just finished",
			status:   "FT",
			kickoff:  now.Add(-110 * time.Minute),
			expected: 2 * time.Minute,
		},
		{
			name:     "finished within the hour",
			status:   "FT",
			kickoff:  now.Add(-150 * time.Minute),
			expected: 5 * time.Minute,
		},
		{
			name:     "finished yesterday",
			status:   "FT",
			kickoff:  now.Add(-24 * time.Hour),
			expected: TTLStatic,
		},
		{
			name:     "awarded",
			status:   "AWD",
			kickoff:  now.Add(-24 * time.Hour),
			expected: TTLStatic,
		},
		{
			name:     "kickoff imminent",
			status:   "NS",
			kickoff:  now.Add(20 * time.Minute),
			expected: time.Minute,
		},
		{
			name:     "kickoff tomorrow",
			status:   "NS",
			kickoff:  now.Add(24 * time.Hour),
			expected: TTLSemiRealtime,
		},
		{
			name:     "unknown status",
			status:   "??",
			kickoff:  now,
			expected: TTLDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchTTL(tt.status, tt.kickoff.Unix(), now)
			if got != tt.expected {
				t.Errorf("MatchTTL(%s) = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestMatchTTL_NoKickoff(t *testing.T) {
	now := time.Now()

	if got := MatchTTL("NS", 0, now); got != TTLSemiRealtime {
		t.Errorf("MatchTTL(NS, no kickoff) = %v, want %v", got, TTLSemiRealtime)
	}
	if got := MatchTTL("FT", 0, now); got != TTLStatic {
		t.Errorf("MatchTTL(FT, no kickoff) = %v, want %v", got, TTLStatic)
	}
}
