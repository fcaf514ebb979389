// Package cache implements the persisted read-through cache layer for
// api-football responses.
//
// Identity: every cached payload is keyed by (subject id, data type, season).
// A nil season marks data that is not season-scoped, such as squads or
// transfer history. Writes upsert; stale rows are superseded, never purged.
//
// # Request keys
//
//	key := cache.Key{Endpoint: "players/squads", Params: map[string]any{"team": 33}}
//	key.String()      // "football:players/squads:team=33"
//	key.URL(baseURL)  // canonical, sorted query string
//
// Parameter normalization is idempotent under key-order permutation and
// treats 33 and "33" identically, so equivalent requests always map to the
// same cache row.
//
// # TTL policy
//
//	ttl := cache.TTLFor(cache.DataTypeSquad, cache.Context{})             // 1h
//	ttl  = cache.TTLFor(cache.DataTypeStats, cache.Context{Live: true})   // 30s
//
// The table is immutable at runtime. Unknown data types fall back to a
// conservative 5 minute default. A live context never lengthens a TTL.
//
// # Stores
//
// DatabaseStore persists entries in a relational table per entity family
// (team_cache, player_cache) with upsert-on-conflict semantics. RedisStore
// offers the same interface for deployments without the relational store.
// Both resolve concurrent writers by last write wins: this is a display
// cache, not a source of truth.
package cache
