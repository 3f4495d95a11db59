package command

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/dialogue"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/internal/service/session"
	"github.com/sandevgo/gomibot/internal/storage/memory"
	"github.com/sandevgo/gomibot/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "line:U1"

type fixture struct {
	router    *Router
	users     *sqlite.UserRepo
	schedules *sqlite.ScheduleRepo
}

func newFixture(t *testing.T, fallback bool) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, filepath.Join(t.TempDir(), "gomibot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)
	formatter := render.NewFormatter(cat)

	users := sqlite.NewUserRepo(db)
	schedules := sqlite.NewScheduleRepo(db)
	sessions := session.NewStore(memory.NewCache(), 5*time.Minute)
	dlg := dialogue.NewService(schedules, sessions, formatter, dialogue.Limits{ItemMax: 20, NoteMax: 100})

	loc, err := calendar.LoadZone(calendar.DefaultZone)
	require.NoError(t, err)
	h := NewHandlers(users, schedules, dlg, formatter, loc, 5*time.Minute)
	// Tuesday 2025-03-04, 10:00 JST
	h.now = func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, loc) }

	return &fixture{
		router:    New(NewRoutes(h, fallback), formatter),
		users:     users,
		schedules: schedules,
	}
}

func (f *fixture) text(t *testing.T, text string) []core.Message {
	t.Helper()
	return f.router.Dispatch(context.Background(), core.Event{Type: core.EventMessage, UserID: userID, Text: text})
}

func (f *fixture) postback(t *testing.T, data string, params map[string]string) []core.Message {
	t.Helper()
	return f.router.Dispatch(context.Background(), core.Event{Type: core.EventPostback, UserID: userID, Postback: data, Params: params})
}

func (f *fixture) register(t *testing.T) {
	t.Helper()
	msgs := f.text(t, core.KeywordRegister)
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Text, "ありがとうございます")
}

func TestRouter_UnknownUserIsAskedToRegister(t *testing.T) {
	f := newFixture(t, false)

	msgs := f.text(t, core.KeywordList)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "はじめる")
	require.Len(t, msgs[0].QuickReplies, 1)
	assert.Equal(t, core.KeywordRegister, msgs[0].QuickReplies[0].Text)
}

func TestRouter_HelpIsOpen(t *testing.T) {
	f := newFixture(t, false)

	for _, kw := range []string{core.KeywordHelp, core.KeywordUsage} {
		msgs := f.text(t, kw)
		require.Len(t, msgs, 1)
		assert.Equal(t, core.MessageCarousel, msgs[0].Type)
	}
}

func TestRouter_RegisterSeedsSchedule(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)

	entries, err := f.schedules.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, entries, 7)

	msgs := f.text(t, core.KeywordList)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.MessageCarousel, msgs[0].Type)
	assert.Len(t, msgs[0].Cards, 7)
}

func TestRouter_Query(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)
	ctx := context.Background()
	require.NoError(t, f.schedules.Update(ctx, userID, calendar.Tuesday, "燃えるごみ", "-"))
	require.NoError(t, f.schedules.Update(ctx, userID, calendar.Wednesday, "プラ", "洗って出す"))

	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantBody  string
	}{
		{name: "today", text: core.KeywordToday, wantTitle: "今日のごみ🗑️", wantBody: "燃えるごみ"},
		{name: "today_kana", text: core.KeywordTodayKana, wantTitle: "今日のごみ🗑️", wantBody: "燃えるごみ"},
		{name: "tomorrow", text: core.KeywordTomorrow, wantTitle: "明日のごみ🗑️", wantBody: "プラ"},
		{name: "tomorrow_kana", text: core.KeywordTomorrowKana, wantTitle: "明日のごみ🗑️", wantBody: "プラ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := f.text(t, tt.text)
			require.Len(t, msgs, 1)
			require.Len(t, msgs[0].Cards, 1)
			assert.Equal(t, tt.wantTitle, msgs[0].Cards[0].Title)
			assert.Equal(t, tt.wantBody, msgs[0].Cards[0].Body)
		})
	}
}

func TestRouter_ModificationFlow(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)

	msgs := f.postback(t, core.EncodePostback(core.PostbackStartChange, "day", "火曜日"), nil)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "【火曜日】")

	// Keywords are treated as dialogue input while a session is active.
	msgs = f.text(t, core.KeywordList)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "メモ")

	msgs = f.text(t, core.KeywordNone)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Cards, 1)

	entries, err := f.schedules.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	tue, _ := core.FindDay(entries, calendar.Tuesday)
	assert.Equal(t, core.KeywordList, tue.GarbageType)
	assert.Equal(t, core.NoteNone, tue.Note)

	// Back to normal routing.
	msgs = f.text(t, core.KeywordToday)
	require.Len(t, msgs, 1)
	assert.Equal(t, "今日のごみ🗑️", msgs[0].Cards[0].Title)
}

func TestRouter_PostbackErrors(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)

	for _, data := range []string{
		"action=startChange&day=Funday",
		"action=launchRocket",
		"no-action",
		"action=setReminder&slot=noon",
		"action=setReminder&slot=night",
	} {
		msgs := f.postback(t, data, nil)
		require.Len(t, msgs, 1, data)
		assert.Contains(t, msgs[0].Text, "エラーが発生しました", data)
	}
}

func TestRouter_ReminderSettings(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)
	ctx := context.Background()

	msgs := f.postback(t, "action=setReminder&slot=night&", map[string]string{"time": "21:00"})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "21:00")

	u, err := f.users.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "21:00", u.NightTime)

	msgs = f.text(t, core.KeywordReminder)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Cards[0].Body, "21:00")

	msgs = f.postback(t, core.EncodePostback(core.PostbackClearReminder, "slot", "night"), nil)
	require.Len(t, msgs, 1)
	u, err = f.users.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, u.NightTime)
}

func TestRouter_SetReminderSnapsLateTime(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)

	msgs := f.postback(t, "action=setReminder&slot=night&", map[string]string{"time": "23:58"})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "23:55")

	u, err := f.users.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "23:55", u.NightTime)
}

func TestRouter_UnsubscribeAndReactivate(t *testing.T) {
	f := newFixture(t, false)
	f.register(t)

	msgs := f.text(t, core.KeywordUnsubscribe)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "ご利用ありがとうございました")

	msgs = f.text(t, core.KeywordToday)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].QuickReplies, 1)
	assert.Equal(t, core.KeywordReactivate, msgs[0].QuickReplies[0].Text)

	msgs = f.text(t, core.KeywordReactivate)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "利用を再開しました")

	u, err := f.users.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, u.Active())
}

func TestRouter_FollowLifecycle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	follow := core.Event{Type: core.EventFollow, UserID: userID}

	msgs := f.router.Dispatch(ctx, follow)
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0].Text, "友だち追加ありがとうございます"))

	f.register(t)
	assert.Nil(t, f.router.Dispatch(ctx, core.Event{Type: core.EventUnfollow, UserID: userID}))

	msgs = f.router.Dispatch(ctx, follow)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "再開しますか")

	f.text(t, core.KeywordReactivate)
	msgs = f.router.Dispatch(ctx, follow)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "引き続き")
}

func TestRouter_UnmatchedText(t *testing.T) {
	assert.Nil(t, newFixture(t, false).text(t, "こんにちは"))

	msgs := newFixture(t, true).text(t, "こんにちは")
	require.Len(t, msgs, 1)
	assert.NotEmpty(t, msgs[0].QuickReplies)
}

func TestRouter_RecoversPanic(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	r := New([]Route{{
		Name:  "boom",
		Match: eventIs(core.EventMessage),
		Handle: func(context.Context, core.Event) []core.Message {
			panic("boom")
		},
	}}, render.NewFormatter(cat))

	msgs := r.Dispatch(context.Background(), core.Event{Type: core.EventMessage, Text: "x"})
	require.Len(t, msgs, 1)
	assert.Equal(t, cat.Get(catalog.CommonError), msgs[0].Text)
}
