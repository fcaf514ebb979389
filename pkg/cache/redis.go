package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisRetention bounds how long a Redis-backed entry stays available
// for stale fallback. Freshness is still evaluated from UpdatedAt against the
// policy TTL; this is only the hard eviction horizon.
const DefaultRedisRetention = 7 * 24 * time.Hour

// RedisStore implements Store on Redis. It serves deployments that run
// without the relational store: same identity scheme, JSON-encoded entries,
// retention-bounded so stale fallback keeps working well past the policy TTL.
type RedisStore struct {
	redis     *redis.Client
	keyspace  string
	retention time.Duration
}

// NewRedisStore creates a Redis-backed store. keyspace distinguishes entity
// families the way table names do for DatabaseStore (e.g. "team", "player").
func NewRedisStore(client *redis.Client, keyspace string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if keyspace == "" {
		return nil, fmt.Errorf("keyspace is required")
	}
	return &RedisStore{
		redis:     client,
		keyspace:  keyspace,
		retention: DefaultRedisRetention,
	}, nil
}

func (s *RedisStore) key(subjectID int64, dataType DataType, season *int) string {
	return fmt.Sprintf("football:cache:%s:%d:%s:%d",
		s.keyspace, subjectID, dataType, seasonColumn(season))
}

// Get returns the entry for the identity tuple, or ErrCacheMiss.
func (s *RedisStore) Get(ctx context.Context, subjectID int64, dataType DataType, season *int) (*Entry, error) {
	data, err := s.redis.Get(ctx, s.key(subjectID, dataType, season)).Bytes()
	if err != nil {
		if err == redis.Nil {
			cacheMisses.WithLabelValues(s.keyspace).Inc()
			return nil, ErrCacheMiss
		}
		cacheErrors.WithLabelValues(s.keyspace, "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		cacheErrors.WithLabelValues(s.keyspace, "get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	cacheHits.WithLabelValues(s.keyspace).Inc()
	return &entry, nil
}

// Put upserts the entry with the retention horizon as Redis TTL.
func (s *RedisStore) Put(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		cacheErrors.WithLabelValues(s.keyspace, "put").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	key := s.key(entry.SubjectID, entry.DataType, entry.Season)
	if err := s.redis.Set(ctx, key, data, s.retention).Err(); err != nil {
		cacheErrors.WithLabelValues(s.keyspace, "put").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
