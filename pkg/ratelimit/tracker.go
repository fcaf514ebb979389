package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "footdata_quota_requests_remaining",
		Help: "Requests remaining in the provider's daily quota",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "footdata_quota_blocks_total",
		Help: "Total number of requests blocked due to exhausted daily quota",
	})
)

// Tracker mirrors provider quota headers into Redis and gates requests.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewTracker creates a quota tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// GetState retrieves the current quota state from Redis.
// Returns a zero (healthy) state when nothing has been observed yet.
func (t *Tracker) GetState(ctx context.Context) (*QuotaState, error) {
	remaining, err := t.redis.Get(ctx, RedisKeyRequestsRemaining).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get quota remaining: %w", err)
	}
	if err == redis.Nil {
		t.logger.Debug().Msg("No quota state in Redis, assuming healthy")
		return &QuotaState{}, nil
	}

	limit, err := t.redis.Get(ctx, RedisKeyRequestsLimit).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get quota limit: %w", err)
	}

	lastUpdateUnix, err := t.redis.Get(ctx, RedisKeyLastUpdate).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get quota last update: %w", err)
	}

	state := &QuotaState{
		Remaining: remaining,
		Limit:     limit,
	}
	if lastUpdateUnix > 0 {
		state.LastUpdate = time.Unix(lastUpdateUnix, 0)
	}
	return state, nil
}

// UpdateFromHeaders parses provider quota headers and updates Redis state.
// Responses without quota headers are ignored.
func (t *Tracker) UpdateFromHeaders(ctx context.Context, headers http.Header) error {
	remainStr := headers.Get("x-ratelimit-requests-remaining")
	if remainStr == "" {
		return nil
	}

	remaining, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse x-ratelimit-requests-remaining header: %w", err)
	}

	limit := 0
	if limitStr := headers.Get("x-ratelimit-requests-limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("parse x-ratelimit-requests-limit header: %w", err)
		}
	}

	now := time.Now()
	expiry := (&QuotaState{LastUpdate: now}).ResetsAt().Sub(now)

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyRequestsRemaining, remaining, expiry)
	pipe.Set(ctx, RedisKeyRequestsLimit, limit, expiry)
	pipe.Set(ctx, RedisKeyLastUpdate, now.Unix(), expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store quota state: %w", err)
	}

	quotaRemaining.Set(float64(remaining))

	if limit > 0 && remaining <= limit/10 {
		t.logger.Warn().
			Int("remaining", remaining).
			Int("limit", limit).
			Msg("Daily request quota running low")
	}
	return nil
}

// ShouldAllowRequest reports whether a request may be issued under the
// current quota. Exhausted quota blocks until the daily window rolls over;
// state older than the window never blocks.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, err
	}

	if !state.Exhausted() {
		return true, nil
	}
	if state.Stale(24 * time.Hour) {
		return true, nil
	}
	if time.Now().After(state.ResetsAt()) {
		return true, nil
	}

	quotaBlocksTotal.Inc()
	t.logger.Warn().
		Time("resets_at", state.ResetsAt()).
		Msg("Request blocked: daily quota exhausted")
	return false, nil
}
