package models

import "time"

// KVEntry is one persisted client value, such as the stored session or the
// cookie jar.
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:128" json:"key"`
	Value     []byte    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string { return "client_kv" }
