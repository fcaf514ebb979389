package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/matchpulse/footdata/pkg/cache"
	"github.com/matchpulse/footdata/pkg/client"
	"github.com/matchpulse/footdata/pkg/logging"
	"github.com/matchpulse/footdata/pkg/pagination"
)

var (
	subfetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footdata_subfetch_total",
			Help: "Sub-fetch outcomes by data type (fresh_hit, refreshed, stale_fallback, failed)",
		},
		[]string{"data_type", "outcome"},
	)
	aggregateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "footdata_aggregate_duration_seconds",
			Help:    "End-to-end duration of full-data aggregate calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity"},
	)
)

// Config holds the dependencies for an Aggregator.
type Config struct {
	// Client performs the upstream api-football requests. Required.
	Client *client.Client

	// TeamStore persists team-scoped cache entries. Required.
	TeamStore cache.Store

	// PlayerStore persists player-scoped cache entries. Required.
	PlayerStore cache.Store

	// Pagination tunes the fan-out for paginated endpoints. Zero value
	// uses the package defaults.
	Pagination pagination.Config

	// Logger for aggregation events. Defaults to a component logger.
	Logger *zerolog.Logger
}

// Aggregator assembles full team and player views from cached and freshly
// fetched api-football data. Every sub-fetch is read-through: cache first,
// upstream on miss or expiry, stale cache as last resort when the upstream
// call fails.
type Aggregator struct {
	client      *client.Client
	teamStore   cache.Store
	playerStore cache.Store
	pages       *pagination.BatchFetcher
	group       singleflight.Group
	logger      zerolog.Logger

	// now is swapped out in tests to pin freshness decisions.
	now func() time.Time
}

// New creates an Aggregator from the given config.
func New(cfg Config) (*Aggregator, error) {
	if cfg.Client == nil {
		return nil, errors.New("aggregate: client is required")
	}
	if cfg.TeamStore == nil {
		return nil, errors.New("aggregate: team store is required")
	}
	if cfg.PlayerStore == nil {
		return nil, errors.New("aggregate: player store is required")
	}

	logger := logging.NewLogger("aggregate")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Aggregator{
		client:      cfg.Client,
		teamStore:   cfg.TeamStore,
		playerStore: cfg.PlayerStore,
		pages:       pagination.NewBatchFetcher(cfg.Client.Get, cfg.Pagination),
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Section is the per-sub-fetch result embedded in aggregate responses.
// A stale section carries the last cached payload together with the reason
// the refresh failed.
type Section struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Stale   bool            `json:"stale,omitempty"`
	Message string          `json:"message,omitempty"`
}

// subfetch describes one cacheable upstream call: where it is stored, how it
// is keyed, and which request produces it.
type subfetch struct {
	store     cache.Store
	subjectID int64
	dataType  cache.DataType
	season    *int
	key       cache.Key

	// ttlCtx feeds match-state aware TTL resolution.
	ttlCtx cache.Context

	// ttlFromPayload, when set, derives the TTL context from the cached
	// payload so in-progress matches shorten the freshness window.
	ttlFromPayload func(payload json.RawMessage, now time.Time) cache.Context

	// paged sub-fetches fan out over all result pages and cache the
	// merged array.
	paged bool
}

// load runs the read-through flow for a single sub-fetch.
func (a *Aggregator) load(ctx context.Context, sf subfetch) Section {
	log := a.logger.With().
		Str("data_type", string(sf.dataType)).
		Int64("subject_id", sf.subjectID).
		Str("endpoint", sf.key.Endpoint).
		Logger()

	entry, err := sf.store.Get(ctx, sf.subjectID, sf.dataType, sf.season)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache read degrades to a miss; the upstream call
		// below still has a chance to serve the request.
		log.Warn().Err(err).Msg("Cache read failed, treating as miss")
		entry = nil
	}

	ttlCtx := sf.ttlCtx
	if sf.ttlFromPayload != nil && entry != nil {
		ttlCtx = sf.ttlFromPayload(entry.Payload, a.now())
	}
	ttl := cache.TTLFor(sf.dataType, ttlCtx)

	if entry != nil && entry.FreshWithin(a.now(), ttl) {
		subfetchTotal.WithLabelValues(string(sf.dataType), "fresh_hit").Inc()
		return Section{Success: true, Data: entry.Payload}
	}

	payload, err := a.fetchAndStore(ctx, sf)
	if err == nil {
		subfetchTotal.WithLabelValues(string(sf.dataType), "refreshed").Inc()
		return Section{Success: true, Data: payload}
	}

	if entry != nil {
		subfetchTotal.WithLabelValues(string(sf.dataType), "stale_fallback").Inc()
		log.Warn().Err(err).
			Dur("age", entry.Age(a.now())).
			Msg("Upstream fetch failed, serving stale cache")
		return Section{
			Success: true,
			Data:    entry.Payload,
			Stale:   true,
			Message: fmt.Sprintf("serving cached data: %v", err),
		}
	}

	subfetchTotal.WithLabelValues(string(sf.dataType), "failed").Inc()
	log.Error().Err(err).Msg("Upstream fetch failed with no cached fallback")
	return Section{Success: false, Message: err.Error()}
}

// fetchAndStore performs the upstream call (deduplicated across concurrent
// callers asking for the same key) and writes the result through to the
// store. A failed write is logged but does not fail the fetch.
func (a *Aggregator) fetchAndStore(ctx context.Context, sf subfetch) (json.RawMessage, error) {
	v, err, _ := a.group.Do(sf.key.String(), func() (any, error) {
		var payload json.RawMessage
		if sf.paged {
			merged, err := a.pages.FetchAll(ctx, sf.key.Endpoint, sf.key.Params)
			if err != nil {
				return nil, err
			}
			payload = merged
		} else {
			env, err := a.client.Get(ctx, sf.key.Endpoint, sf.key.Params)
			if err != nil {
				return nil, err
			}
			payload = env.Response
		}

		entry := &cache.Entry{
			SubjectID: sf.subjectID,
			DataType:  sf.dataType,
			Season:    sf.season,
			Payload:   payload,
			UpdatedAt: a.now(),
		}
		if err := sf.store.Put(ctx, entry); err != nil {
			a.logger.Warn().Err(err).
				Str("data_type", string(sf.dataType)).
				Int64("subject_id", sf.subjectID).
				Msg("Cache write failed, serving fetched data anyway")
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}
