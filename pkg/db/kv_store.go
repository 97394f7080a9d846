package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hastilong/storefront/pkg/db/models"
	"github.com/hastilong/storefront/pkg/kv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueStore implements kv.Store on the kv_entries table.
type KeyValueStore struct {
	conn *gorm.DB
	now  func() time.Time
}

// NewKeyValueStore returns the store once the kv_entries table exists.
// Migrations are applied by pkg/migrate.
func NewKeyValueStore(ctx context.Context, client *Client) (*KeyValueStore, error) {
	if client == nil || client.conn == nil {
		return nil, fmt.Errorf("db client required")
	}
	if !client.conn.WithContext(ctx).Migrator().HasTable(&models.KVEntry{}) {
		return nil, fmt.Errorf("table %s missing, run migrations first", models.KVEntry{}.TableName())
	}
	return &KeyValueStore{conn: client.conn, now: time.Now}, nil
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	err := s.conn.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *KeyValueStore) Clear(ctx context.Context, key string) error {
	return s.conn.WithContext(ctx).Where("entry_key = ?", key).Delete(&models.KVEntry{}).Error
}

func (s *KeyValueStore) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
