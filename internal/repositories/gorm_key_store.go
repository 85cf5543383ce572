package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripplanner/internal/models/db_models"
	"tripplanner/pkg/utils"
)

type gormKeyStore struct {
	db *gorm.DB
}

// NewGormKeyStore stores keys in the kv_entries table, migrating it if needed.
func NewGormKeyStore(db *gorm.DB) (KeyStore, error) {
	if err := db.AutoMigrate(&db_models.KVEntry{}); err != nil {
		return nil, fmt.Errorf("%w: migrate kv_entries: %v", utils.ErrStorageUnavailable, err)
	}
	return &gormKeyStore{db: db}, nil
}

func (g *gormKeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry db_models.KVEntry
	err := g.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return []byte(entry.Value), true, nil
}

func (g *gormKeyStore) Set(ctx context.Context, key string, value []byte) error {
	entry := db_models.KVEntry{Key: key, Value: string(value)}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return nil
}

func (g *gormKeyStore) Remove(ctx context.Context, key string) error {
	err := g.db.WithContext(ctx).Delete(&db_models.KVEntry{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return nil
}
