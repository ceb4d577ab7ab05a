package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/chat-studio/internal/activity"
	"github.com/suPer8Hu/chat-studio/internal/chat"
	"github.com/suPer8Hu/chat-studio/internal/db"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_JSONFromStdin(t *testing.T) {
	out, err := runCmd(t, "• **Sub**\n• item one", "render")
	require.NoError(t, err)

	var got struct {
		Strategy string `json:"strategy"`
		Blocks   []struct {
			Kind   string `json:"kind"`
			Text   string `json:"text"`
			Level  int    `json:"level"`
			Indent int    `json:"indent"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "rich", got.Strategy)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "heading", got.Blocks[0].Kind)
	assert.Equal(t, 2, got.Blocks[0].Level)
	assert.Equal(t, "item one", got.Blocks[1].Text)
	assert.Equal(t, 2, got.Blocks[1].Indent)
}

func TestRender_HTMLAndPlain(t *testing.T) {
	out, err := runCmd(t, "", "render", "--strategy", "plain", "--format", "html", "**Title**")
	require.NoError(t, err)
	assert.Contains(t, out, `class="block heading level-1"`)
}

func TestRender_Errors(t *testing.T) {
	_, err := runCmd(t, "x", "render", "--strategy", "latex")
	assert.ErrorContains(t, err, "unknown render strategy")

	_, err = runCmd(t, "x", "render", "--format", "pdf")
	assert.ErrorContains(t, err, `unknown output format "pdf"`)
}

func TestActivity_ListsRecordedMessages(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "activity.db")
	gdb, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	rec, err := activity.NewRecorder(gdb)
	require.NoError(t, err)

	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"question", "answer"} {
		require.NoError(t, rec.Record(ctx, chat.Event{
			Type:      chat.EventMessageAppended,
			SessionID: "S1",
			Message: chat.Message{
				ID: fmt.Sprintf("m%d", i), Role: chat.RoleUser, Kind: chat.KindText,
				Content: content, Timestamp: at.Add(time.Duration(i) * time.Second),
			},
		}))
	}

	out, err := runCmd(t, "", "activity", "S1", "--driver", "sqlite", "--dsn", dsn, "--json")
	require.NoError(t, err)
	var rows []struct {
		MessageID string `json:"message_id"`
		Preview   string `json:"preview"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "question", rows[0].Preview)
	assert.Equal(t, "m1", rows[1].MessageID)

	out, err = runCmd(t, "", "activity", "S1", "--dsn", dsn, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "question")
	assert.NotContains(t, out, "answer")

	out, err = runCmd(t, "", "activity", "nobody", "--dsn", dsn, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
