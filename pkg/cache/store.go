package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates no entry exists for the requested identity.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store persists cache entries keyed by (subject id, data type, season).
//
// Put has upsert semantics: last write wins, no versioning. There is no
// transactional guarantee across data types; each entry is read and written
// independently, so an aggregate response may mix entries of different ages.
// Freshness is evaluated per entry against its own TTL by the caller.
type Store interface {
	// Get returns the entry for the identity tuple, or ErrCacheMiss.
	// A nil season matches only seasonless rows.
	Get(ctx context.Context, subjectID int64, dataType DataType, season *int) (*Entry, error)

	// Put inserts or overwrites the entry for its identity tuple.
	Put(ctx context.Context, entry *Entry) error
}
