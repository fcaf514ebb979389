package ratelimit

import (
	"testing"
	"time"
)

func TestQuotaState_Exhausted(t *testing.T) {
	tests := []struct {
		name     string
		state    QuotaState
		expected bool
	}{
		{"unobserved", QuotaState{}, false},
		{"healthy", QuotaState{Remaining: 80, Limit: 100}, false},
		{"last request", QuotaState{Remaining: 1, Limit: 100}, false},
		{"spent", QuotaState{Remaining: 0, Limit: 100}, true},
		{"overdrawn", QuotaState{Remaining: -2, Limit: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Exhausted(); got != tt.expected {
				t.Errorf("Exhausted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestQuotaState_ResetsAt(t *testing.T) {
	state := QuotaState{
		LastUpdate: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
	}

	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := state.ResetsAt(); !got.Equal(want) {
		t.Errorf("ResetsAt() = %v, want %v", got, want)
	}
}

func TestQuotaState_Stale(t *testing.T) {
	fresh := QuotaState{LastUpdate: time.Now()}
	if fresh.Stale(time.Hour) {
		t.Error("fresh state reported stale")
	}

	old := QuotaState{LastUpdate: time.Now().Add(-25 * time.Hour)}
	if !old.Stale(24 * time.Hour) {
		t.Error("day-old state should be stale")
	}
}
