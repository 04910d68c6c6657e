package infra

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"khatapos/internal/store"
)

// StateBlob is one persisted collection: the JSON payload for a fixed key.
// The whole-collection-as-blob shape is deliberate — the persistence contract
// is key → serialized state, not relational rows.
type StateBlob struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (StateBlob) TableName() string { return "state_blobs" }

// SQLiteKV is the embedded KV backend: a single-table SQLite file managed by
// GORM. Suits the client-local, single-shop deployment where no Redis runs.
type SQLiteKV struct {
	db *gorm.DB
}

// NewSQLiteKV opens (or creates) the database file and migrates the blob table.
func NewSQLiteKV(path string) (*SQLiteKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers anyway; one connection avoids lock churn.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&StateBlob{}); err != nil {
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func (k *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var blob StateBlob
	err := k.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob.Value, nil
}

func (k *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	blob := StateBlob{Key: key, Value: value, UpdatedAt: time.Now()}
	return k.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&blob).Error
}
