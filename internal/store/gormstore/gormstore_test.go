package gormstore

import (
	"context"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s, err := New(openTestDB(t))
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "chat-a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "chat-a", []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Set(ctx, "chat-a", []byte(`[{"id":"1"},{"id":"2"}]`)))

	got, ok, err := s.Get(ctx, "chat-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, string(got))

	var n int64
	require.NoError(t, s.db.Model(&LogRecord{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, err := New(openTestDB(t))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "chat-a", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "chat-b", []byte(`[]`)))
	require.NoError(t, s.Remove(ctx, "chat-a"))
	require.NoError(t, s.Remove(ctx, "chat-missing"))

	_, ok, err := s.Get(ctx, "chat-a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Get(ctx, "chat-b")
	require.NoError(t, err)
	assert.True(t, ok)
}
