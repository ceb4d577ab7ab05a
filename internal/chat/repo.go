package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	logKeyPrefix    = "chat-"
	sessionIndexKey = "chat-sessions"
)

func logKey(sessionID string) string { return logKeyPrefix + sessionID }

// indexEntry is the persisted sidebar row for one session. Preview and
// count are cached so a restore does not have to read every log.
type indexEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	Preview      string    `json:"preview,omitempty"`
	MessageCount int       `json:"message_count"`
	Context      string    `json:"context,omitempty"`
}

type Repo struct {
	store LogStore
}

func NewRepo(store LogStore) *Repo {
	return &Repo{store: store}
}

// LoadLog returns the persisted log of a session, or nil if none exists.
func (r *Repo) LoadLog(ctx context.Context, sessionID string) ([]Message, error) {
	data, ok, err := r.store.Get(ctx, logKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load log %s: %w", sessionID, err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", sessionID, err)
	}
	return msgs, nil
}

// SaveLog overwrites the full log of a session.
func (r *Repo) SaveLog(ctx context.Context, sessionID string, msgs []Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode log %s: %w", sessionID, err)
	}
	if err := r.store.Set(ctx, logKey(sessionID), data); err != nil {
		return fmt.Errorf("save log %s: %w", sessionID, err)
	}
	return nil
}

func (r *Repo) RemoveLog(ctx context.Context, sessionID string) error {
	if err := r.store.Remove(ctx, logKey(sessionID)); err != nil {
		return fmt.Errorf("remove log %s: %w", sessionID, err)
	}
	return nil
}

func (r *Repo) loadIndex(ctx context.Context) ([]indexEntry, error) {
	data, ok, err := r.store.Get(ctx, sessionIndexKey)
	if err != nil {
		return nil, fmt.Errorf("load session index: %w", err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode session index: %w", err)
	}
	return entries, nil
}

func (r *Repo) saveIndex(ctx context.Context, entries []indexEntry) error {
	if entries == nil {
		entries = []indexEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode session index: %w", err)
	}
	if err := r.store.Set(ctx, sessionIndexKey, data); err != nil {
		return fmt.Errorf("save session index: %w", err)
	}
	return nil
}
