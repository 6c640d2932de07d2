package kv

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is the single table backing the Postgres store.
type Entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName keeps the table name explicit.
func (Entry) TableName() string {
	return "kv_entries"
}

// Postgres is a Store backed by a kv_entries table.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres wraps an initialized gorm connection.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the stored value for key, if any.
func (p *Postgres) Get(key string) (string, bool, error) {
	var entry Entry
	err := p.db.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set stores value under key, replacing any prior entry.
func (p *Postgres) Set(key, value string) error {
	entry := Entry{Key: key, Value: value}
	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}

// Remove deletes the entry for key. Removing a missing key is not an error.
func (p *Postgres) Remove(key string) error {
	return p.db.Delete(&Entry{}, "key = ?", key).Error
}
