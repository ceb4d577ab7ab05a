package rabbitmq

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/chat-studio/internal/chat"
)

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ev := chat.Event{
		Type:      chat.EventMessageAppended,
		SessionID: "01JNSESSION",
		Message: chat.Message{
			ID:        "6f1c3f0e-1d1b-4a63-9f59-3b8c1a2b9e10",
			Role:      chat.RoleAssistant,
			Content:   "📚 Sources: a.pdf",
			Kind:      chat.KindSources,
			Timestamp: at,
		},
		At: at,
	}

	msg, err := EncodeEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, ev.Message.ID, msg.MessageId)
	assert.Equal(t, chat.EventMessageAppended, msg.Type)

	got, err := DecodeEvent(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, ev.SessionID, got.SessionID)
	assert.Equal(t, chat.KindSources, got.Message.Kind)
	assert.True(t, at.Equal(got.Message.Timestamp))
}

func TestDecodeEvent_Garbage(t *testing.T) {
	_, err := DecodeEvent([]byte("not json"))
	assert.Error(t, err)
}
