package chat

import (
	"context"
	"time"
)

// LogStore is keyed get/set/remove of serialized message logs. Get reports
// ok=false for a missing key.
type LogStore interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
}

const EventMessageAppended = "message.appended"

type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Message   Message   `json:"message"`
	At        time.Time `json:"at"`
}

// Notifier is told about every append after it has been persisted.
type Notifier interface {
	MessageAppended(ctx context.Context, ev Event) error
}
