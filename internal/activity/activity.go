// Package activity keeps a queryable SQL projection of chat messages, fed
// by the message-appended events the worker consumes.
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/suPer8Hu/chat-studio/internal/chat"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const previewRunes = 120

type Activity struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	MessageID string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"message_id"`
	SessionID string    `gorm:"type:varchar(26);index;not null" json:"session_id"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Kind      string    `gorm:"type:varchar(16);not null" json:"kind"`
	Preview   string    `gorm:"type:varchar(512)" json:"preview"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Activity) TableName() string { return "chat_activity" }

type Recorder struct {
	db *gorm.DB
}

// NewRecorder migrates chat_activity and returns a recorder on it.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&Activity{}); err != nil {
		return nil, err
	}
	return &Recorder{db: db}, nil
}

// Record upserts the row for ev's message, so redelivered events are
// harmless.
func (r *Recorder) Record(ctx context.Context, ev chat.Event) error {
	if ev.SessionID == "" || ev.Message.ID == "" {
		return errors.New("activity: event without session or message id")
	}
	row := Activity{
		MessageID: ev.Message.ID,
		SessionID: ev.SessionID,
		Role:      string(ev.Message.Role),
		Kind:      string(ev.Message.Kind),
		Preview:   truncate(ev.Message.Content, previewRunes),
		SentAt:    ev.Message.Timestamp,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "role", "kind", "preview", "sent_at"}),
	}).Create(&row).Error
}

// BySession lists a session's activity, oldest first.
func (r *Recorder) BySession(ctx context.Context, sessionID string, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []Activity
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("sent_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
