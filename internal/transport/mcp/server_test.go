package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/service/dialogue"
	"github.com/sandevgo/gomibot/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "line:U1"

func newHandler(t *testing.T) *Handler {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, filepath.Join(t.TempDir(), "gomibot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepo(db)
	schedules := sqlite.NewScheduleRepo(db)
	_, err = users.Register(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, schedules.Seed(ctx, userID))
	require.NoError(t, schedules.Update(ctx, userID, calendar.Tuesday, "燃えるごみ", "8時まで"))

	loc, err := calendar.LoadZone(calendar.DefaultZone)
	require.NoError(t, err)
	h := NewHandler(users, schedules, loc, dialogue.Limits{ItemMax: 20, NoteMax: 100})
	// Tuesday 2025-03-04, 10:00 JST
	h.now = func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, loc) }
	return h
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestListSchedule(t *testing.T) {
	h := newHandler(t)

	res, err := h.handleListSchedule(context.Background(), call(map[string]any{"user_id": userID}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var days []dayView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &days))
	require.Len(t, days, 7)
	assert.Equal(t, "月曜日", days[0].Day)
	assert.Equal(t, dayView{Day: "火曜日", GarbageType: "燃えるごみ", Note: "8時まで"}, days[1])
}

func TestGetDay(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name    string
		day     string
		want    string
		isError bool
	}{
		{name: "label", day: "火曜日", want: "火曜日"},
		{name: "today", day: "今日", want: "火曜日"},
		{name: "tomorrow_kana", day: "あした", want: "水曜日"},
		{name: "unknown", day: "火", isError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.handleGetDay(context.Background(), call(map[string]any{"user_id": userID, "day": tt.day}))
			require.NoError(t, err)
			assert.Equal(t, tt.isError, res.IsError)
			if tt.isError {
				return
			}
			var v dayView
			require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &v))
			assert.Equal(t, tt.want, v.Day)
		})
	}
}

func TestUpdateSchedule(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	res, err := h.handleUpdateSchedule(ctx, call(map[string]any{
		"user_id":      userID,
		"day":          "金曜日",
		"garbage_type": ` "びん" `,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	entries, err := h.schedules.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "＂びん＂", entries[calendar.Friday].GarbageType)
	assert.Equal(t, "-", entries[calendar.Friday].Note)

	res, err = h.handleUpdateSchedule(ctx, call(map[string]any{
		"user_id":      userID,
		"day":          "金曜日",
		"garbage_type": "あいうえおかきくけこさしすせそたちつてとな",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestUnknownUser(t *testing.T) {
	h := newHandler(t)

	res, err := h.handleListSchedule(context.Background(), call(map[string]any{"user_id": "line:nobody"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not registered")
}

func TestListUsers(t *testing.T) {
	h := newHandler(t)

	res, err := h.handleListUsers(context.Background(), call(nil))
	require.NoError(t, err)

	var users []userView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &users))
	require.Len(t, users, 1)
	assert.Equal(t, userID, users[0].UserID)
	assert.Equal(t, "ACTIVE", users[0].Status)
}
