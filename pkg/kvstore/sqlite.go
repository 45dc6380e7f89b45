package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nirajw/eshop-storefront/pkg/config"
	"github.com/nirajw/eshop-storefront/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteStore persists entries in an embedded sqlite database.
type SQLiteStore struct {
	conn *gorm.DB
}

// NewSQLite opens (and migrates) the sqlite-backed store at the configured path.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logg *logger.Logger) (*SQLiteStore, error) {
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local storage: %w", err)
	}
	if err := conn.WithContext(ctx).AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrating local storage: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "local storage ready")
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.conn.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.conn.WithContext(ctx).Delete(&kvEntry{}, "key IN ?", keys).Error; err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
