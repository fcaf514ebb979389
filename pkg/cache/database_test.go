package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDatabaseStore(t *testing.T) *DatabaseStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := NewDatabaseStore(db, "team_cache")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	return store
}

func TestNewDatabaseStore_Validation(t *testing.T) {
	_, err := NewDatabaseStore(nil, "team_cache")
	require.Error(t, err)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	_, err = NewDatabaseStore(db, "")
	require.Error(t, err)
}

func TestDatabaseStore_GetMiss(t *testing.T) {
	store := setupDatabaseStore(t)

	_, err := store.Get(context.Background(), 33, DataTypeSquad, nil)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestDatabaseStore_PutGetRoundTrip(t *testing.T) {
	store := setupDatabaseStore(t)
	ctx := context.Background()
	season := 2025

	entry := &Entry{
		SubjectID: 33,
		DataType:  DataTypeStandings,
		Season:    &season,
		Payload:   json.RawMessage(`[{"rank":1}]`),
		UpdatedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Put(ctx, entry))

	got, err := store.Get(ctx, 33, DataTypeStandings, &season)
	require.NoError(t, err)
	require.Equal(t, entry.SubjectID, got.SubjectID)
	require.Equal(t, entry.DataType, got.DataType)
	require.JSONEq(t, string(entry.Payload), string(got.Payload))
	require.WithinDuration(t, entry.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestDatabaseStore_UpsertOverwrites(t *testing.T) {
	store := setupDatabaseStore(t)
	ctx := context.Background()

	first := &Entry{
		SubjectID: 33,
		DataType:  DataTypeSquad,
		Payload:   json.RawMessage(`[{"id":1}]`),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Put(ctx, first))

	second := &Entry{
		SubjectID: 33,
		DataType:  DataTypeSquad,
		Payload:   json.RawMessage(`[{"id":2}]`),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, 33, DataTypeSquad, nil)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":2}]`, string(got.Payload))
	require.WithinDuration(t, second.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestDatabaseStore_SeasonScoping(t *testing.T) {
	store := setupDatabaseStore(t)
	ctx := context.Background()
	s2024, s2025 := 2024, 2025

	for season, payload := range map[*int]string{
		&s2024: `[{"season":2024}]`,
		&s2025: `[{"season":2025}]`,
		nil:    `[{"season":null}]`,
	} {
		require.NoError(t, store.Put(ctx, &Entry{
			SubjectID: 33,
			DataType:  DataTypeStats,
			Season:    season,
			Payload:   json.RawMessage(payload),
		}))
	}

	got, err := store.Get(ctx, 33, DataTypeStats, &s2024)
	require.NoError(t, err)
	require.JSONEq(t, `[{"season":2024}]`, string(got.Payload))

	got, err = store.Get(ctx, 33, DataTypeStats, nil)
	require.NoError(t, err)
	require.JSONEq(t, `[{"season":null}]`, string(got.Payload))
}

func TestDatabaseStore_DistinctTuplesCoexist(t *testing.T) {
	store := setupDatabaseStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Entry{
		SubjectID: 33, DataType: DataTypeSquad,
		Payload: json.RawMessage(`["squad"]`),
	}))
	require.NoError(t, store.Put(ctx, &Entry{
		SubjectID: 33, DataType: DataTypeTransfers,
		Payload: json.RawMessage(`["transfers"]`),
	}))
	require.NoError(t, store.Put(ctx, &Entry{
		SubjectID: 40, DataType: DataTypeSquad,
		Payload: json.RawMessage(`["other team"]`),
	}))

	got, err := store.Get(ctx, 33, DataTypeSquad, nil)
	require.NoError(t, err)
	require.JSONEq(t, `["squad"]`, string(got.Payload))

	got, err = store.Get(ctx, 40, DataTypeSquad, nil)
	require.NoError(t, err)
	require.JSONEq(t, `["other team"]`, string(got.Payload))
}

func TestDatabaseStore_PutNil(t *testing.T) {
	store := setupDatabaseStore(t)
	require.Error(t, store.Put(context.Background(), nil))
}
