// Package gormstore persists message logs in a SQL table through gorm, one
// row per key.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogRecord struct {
	Key       string    `gorm:"type:varchar(191);primaryKey"`
	Payload   []byte    `gorm:"type:longblob;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

func (LogRecord) TableName() string { return "chat_logs" }

type Store struct {
	db *gorm.DB
}

// New migrates the chat_logs table and returns a store on it.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&LogRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec LogRecord
	err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Payload, true, nil
}

func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	rec := LogRecord{Key: key, Payload: data, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where(map[string]any{"key": key}).Delete(&LogRecord{}).Error
}
