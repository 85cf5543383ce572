package db_models

import (
	"time"

	"gorm.io/gorm"
)

// KVEntry is one durable key/value pair. Value holds serialized JSON.
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:512"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// Hooks to manage int64 timestamps
func (e *KVEntry) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Unix()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (e *KVEntry) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now().Unix()
	return nil
}
