package activity

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/chat-studio/internal/chat"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func event(session, id, content string, at time.Time) chat.Event {
	return chat.Event{
		Type:      chat.EventMessageAppended,
		SessionID: session,
		Message:   chat.Message{ID: id, Role: chat.RoleAssistant, Kind: chat.KindText, Content: content, Timestamp: at},
		At:        at,
	}
}

func TestRecorder_UpsertsByMessageID(t *testing.T) {
	ctx := context.Background()
	rec, err := NewRecorder(openTestDB(t))
	require.NoError(t, err)

	t0 := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, rec.Record(ctx, event("S1", "m1", "first", t0)))
	require.NoError(t, rec.Record(ctx, event("S1", "m2", strings.Repeat("ж", 200), t0.Add(time.Second))))
	require.NoError(t, rec.Record(ctx, event("S1", "m1", "first", t0)), "redelivery")
	require.NoError(t, rec.Record(ctx, event("S2", "m3", "other", t0)))

	rows, err := rec.BySession(ctx, "S1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m1", rows[0].MessageID)
	assert.Equal(t, "assistant", rows[0].Role)
	assert.Equal(t, 120, len([]rune(rows[1].Preview)))
}

func TestRecorder_RejectsIncompleteEvent(t *testing.T) {
	rec, err := NewRecorder(openTestDB(t))
	require.NoError(t, err)
	assert.Error(t, rec.Record(context.Background(), chat.Event{SessionID: "S1"}))
}
