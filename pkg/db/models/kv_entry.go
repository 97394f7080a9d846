package models

import "time"

// KVEntry is one key of the session key-value port.
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:512"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
