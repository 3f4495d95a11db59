package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "data", "gomibot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepo_RegisterAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestDB(t))

	created, err := repo.Register(ctx, "line:U1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Register(ctx, "line:U1")
	require.NoError(t, err)
	assert.False(t, created, "second register must not create")

	u, err := repo.Get(ctx, "line:U1")
	require.NoError(t, err)
	assert.Equal(t, core.UserActive, u.Status)
	assert.Empty(t, u.MorningTime)
	assert.Empty(t, u.NightTime)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserRepo_Get_NotFound(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	_, err := repo.Get(context.Background(), "line:missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUserRepo_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestDB(t))

	for _, id := range []string{"line:A", "line:B", "telegram:1"} {
		_, err := repo.Register(ctx, id)
		require.NoError(t, err)
	}
	require.NoError(t, repo.SetStatus(ctx, "line:B", core.UserUnsubscribed))

	active, err := repo.GetActiveUsers(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(active))
	for _, u := range active {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"line:A", "telegram:1"}, ids)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, repo.SetStatus(ctx, "line:missing", core.UserActive), core.ErrNotFound)
}

func TestUserRepo_SetReminderTime(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestDB(t))
	_, err := repo.Register(ctx, "line:U1")
	require.NoError(t, err)

	require.NoError(t, repo.SetReminderTime(ctx, "line:U1", core.SlotNight, "21:00"))
	require.NoError(t, repo.SetReminderTime(ctx, "line:U1", core.SlotMorning, "07:30"))

	u, err := repo.Get(ctx, "line:U1")
	require.NoError(t, err)
	assert.Equal(t, "21:00", u.ReminderTime(core.SlotNight))
	assert.Equal(t, "07:30", u.ReminderTime(core.SlotMorning))

	require.NoError(t, repo.SetReminderTime(ctx, "line:U1", core.SlotMorning, ""))
	u, err = repo.Get(ctx, "line:U1")
	require.NoError(t, err)
	assert.Empty(t, u.MorningTime)

	assert.Error(t, repo.SetReminderTime(ctx, "line:U1", core.Slot("noon"), "12:00"))
	assert.ErrorIs(t, repo.SetReminderTime(ctx, "line:missing", core.SlotNight, "21:00"), core.ErrNotFound)
}

func TestScheduleRepo_SeedAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepo(db)
	repo := NewScheduleRepo(db)

	_, err := users.Register(ctx, "line:U1")
	require.NoError(t, err)
	require.NoError(t, repo.Seed(ctx, "line:U1"))

	entries, err := repo.GetByUser(ctx, "line:U1")
	require.NoError(t, err)
	require.Len(t, entries, 7)
	for i, e := range entries {
		assert.Equal(t, calendar.Weekday(i), e.Day)
		assert.Empty(t, e.GarbageType)
		assert.Equal(t, core.NoteNone, e.Note)
	}

	require.NoError(t, repo.Update(ctx, "line:U1", calendar.Tuesday, "燃えるごみ", "雨天時は翌週"))

	// Seeding again keeps existing values.
	require.NoError(t, repo.Seed(ctx, "line:U1"))

	entries, err = repo.GetByUser(ctx, "line:U1")
	require.NoError(t, err)
	require.Len(t, entries, 7)

	tue, ok := core.FindDay(entries, calendar.Tuesday)
	require.True(t, ok)
	assert.Equal(t, "燃えるごみ", tue.GarbageType)
	assert.Equal(t, "雨天時は翌週", tue.Note)
}

func TestScheduleRepo_Update_CreatesMissingRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, err := NewUserRepo(db).Register(ctx, "line:U1")
	require.NoError(t, err)
	repo := NewScheduleRepo(db)

	require.NoError(t, repo.Update(ctx, "line:U1", calendar.Sunday, "びん", core.NoteNone))

	entries, err := repo.GetByUser(ctx, "line:U1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, calendar.Sunday, entries[0].Day)
	assert.False(t, entries[0].HasNote())
}

func TestScheduleRepo_Update_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepo(newTestDB(t))

	assert.Error(t, repo.Update(ctx, "line:U1", calendar.Weekday(9), "x", "-"), "invalid weekday")
	assert.Error(t, repo.Update(ctx, "line:unknown", calendar.Monday, "x", "-"), "foreign key")
}

func TestScheduleRepo_GetAll(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepo(db)
	repo := NewScheduleRepo(db)

	for _, id := range []string{"line:B", "line:A"} {
		_, err := users.Register(ctx, id)
		require.NoError(t, err)
		require.NoError(t, repo.Seed(ctx, id))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 14)
	assert.Equal(t, "line:A", all[0].UserID)
	assert.Equal(t, "line:B", all[13].UserID)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewCache(newTestDB(t))

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "session:line:U1", []byte(`{"step":"AWAITING_ITEM"}`), 5*time.Minute))

	v, ok, err := c.Get(ctx, "session:line:U1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"step":"AWAITING_ITEM"}`, string(v))

	now = now.Add(5 * time.Minute)
	_, ok, err = c.Get(ctx, "session:line:U1")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire at ttl")

	n, err := c.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_SetRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	c := NewCache(newTestDB(t))

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("1"), time.Minute))
	now = now.Add(50 * time.Second)
	require.NoError(t, c.Set(ctx, "k", []byte("2"), time.Minute))
	now = now.Add(50 * time.Second)

	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", string(v))

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
