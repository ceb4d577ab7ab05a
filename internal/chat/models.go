package chat

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind lets a client tell a "searching..." notice or a sources footer apart
// from ordinary answer text.
type Kind string

const (
	KindText         Kind = "text"
	KindSearchStatus Kind = "search-status"
	KindSources      Kind = "sources"
)

const (
	DefaultTitle = "New Chat"
	previewRunes = 50
)

// Message is immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a read-only snapshot of one conversation's metadata.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	Preview      string    `json:"preview"`
	MessageCount int       `json:"message_count"`
	HasContext   bool      `json:"has_context"`
	Sending      bool      `json:"sending"`
}

func preview(content string) string {
	r := []rune(content)
	if len(r) <= previewRunes {
		return content
	}
	return string(r[:previewRunes]) + "..."
}
