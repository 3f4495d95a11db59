package core

import (
	"context"
	"time"

	"github.com/sandevgo/gomibot/internal/calendar"
)

type ScheduleRepository interface {
	GetByUser(ctx context.Context, userID string) ([]ScheduleEntry, error)
	GetAll(ctx context.Context) ([]ScheduleEntry, error)
	Update(ctx context.Context, userID string, day calendar.Weekday, garbageType, note string) error
	Seed(ctx context.Context, userID string) error
}

type UserRepository interface {
	Get(ctx context.Context, userID string) (User, error)
	GetActiveUsers(ctx context.Context) ([]User, error)
	List(ctx context.Context) ([]User, error)
	Register(ctx context.Context, userID string) (created bool, err error)
	SetStatus(ctx context.Context, userID string, status UserStatus) error
	SetReminderTime(ctx context.Context, userID string, slot Slot, hhmm string) error
}

// Cache is an expiring key-value store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
