package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cacheRow is the relational shape of an Entry. Season 0 stands in for
// seasonless rows so the composite unique index stays simple.
type cacheRow struct {
	SubjectID int64     `gorm:"column:subject_id;primaryKey;autoIncrement:false"`
	DataType  string    `gorm:"column:data_type;primaryKey"`
	Season    int       `gorm:"column:season;primaryKey;autoIncrement:false"`
	Payload   []byte    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// DatabaseStore implements Store on a relational table via GORM. Each entity
// family (teams, players) gets its own table, e.g. team_cache / player_cache.
type DatabaseStore struct {
	db    *gorm.DB
	table string
}

// NewDatabaseStore constructs a store over the named table.
func NewDatabaseStore(db *gorm.DB, table string) (*DatabaseStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db is required")
	}
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &DatabaseStore{db: db, table: table}, nil
}

// Migrate creates the cache table if it does not exist.
func (s *DatabaseStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).Table(s.table).AutoMigrate(&cacheRow{})
}

// Get returns the entry for the identity tuple, or ErrCacheMiss.
func (s *DatabaseStore) Get(ctx context.Context, subjectID int64, dataType DataType, season *int) (*Entry, error) {
	var row cacheRow
	err := s.db.WithContext(ctx).Table(s.table).
		Take(&row, "subject_id = ? AND data_type = ? AND season = ?",
			subjectID, string(dataType), seasonColumn(season)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cacheMisses.WithLabelValues(s.table).Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		cacheErrors.WithLabelValues(s.table, "get").Inc()
		return nil, fmt.Errorf("cache get: %w", err)
	}

	cacheHits.WithLabelValues(s.table).Inc()
	return &Entry{
		SubjectID: row.SubjectID,
		DataType:  DataType(row.DataType),
		Season:    season,
		Payload:   row.Payload,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Put upserts the entry. Last write wins; concurrent writers for the same
// tuple are resolved by the database, which is acceptable for a display
// cache that is not a source of truth.
func (s *DatabaseStore) Put(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	updatedAt := entry.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	row := cacheRow{
		SubjectID: entry.SubjectID,
		DataType:  string(entry.DataType),
		Season:    entry.SeasonValue(),
		Payload:   entry.Payload,
		UpdatedAt: updatedAt,
	}

	err := s.db.WithContext(ctx).Table(s.table).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "subject_id"}, {Name: "data_type"}, {Name: "season"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&row).Error
	if err != nil {
		cacheErrors.WithLabelValues(s.table, "put").Inc()
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func seasonColumn(season *int) int {
	if season == nil {
		return 0
	}
	return *season
}
