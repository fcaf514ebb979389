// Package ratelimit tracks the api-football daily request quota. The
// provider reports quota usage on every response via the
// x-ratelimit-requests-limit and x-ratelimit-requests-remaining headers;
// the tracker mirrors that state in Redis so all client instances share it
// and stop issuing requests once the day's budget is spent.
package ratelimit

import (
	"time"
)

// Redis keys for quota state storage.
const (
	RedisKeyRequestsRemaining = "footdata:quota:requests_remaining"
	RedisKeyRequestsLimit     = "footdata:quota:requests_limit"
	RedisKeyLastUpdate        = "footdata:quota:last_update"
)

// QuotaState is the shared view of the provider's daily request budget.
type QuotaState struct {
	// Remaining is the number of requests left in the current day.
	Remaining int `json:"remaining"`

	// Limit is the plan's daily request allowance. Zero means the state
	// has never been observed, which is treated as healthy.
	Limit int `json:"limit"`

	// LastUpdate is when the state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`
}

// Exhausted reports whether the daily budget is spent.
func (s *QuotaState) Exhausted() bool {
	return s.Limit > 0 && s.Remaining <= 0
}

// ResetsAt returns when the quota window rolls over. The provider resets
// daily quotas at midnight UTC.
func (s *QuotaState) ResetsAt() time.Time {
	base := s.LastUpdate
	if base.IsZero() {
		base = time.Now()
	}
	next := base.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return next
}

// Stale reports whether the state is older than maxAge. Stale exhausted
// state should not keep blocking requests forever.
func (s *QuotaState) Stale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}
