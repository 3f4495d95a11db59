// Package reminder decides on each tick which users receive a reminder push.
package reminder

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/metrics"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/pkg/log"
)

var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ParseTime validates an HH:MM reminder time and returns its hour and minute.
func ParseTime(hhmm string) (hour, minute int, err error) {
	if !timePattern.MatchString(hhmm) {
		return 0, 0, fmt.Errorf("%w: %q", core.ErrInvalidTime, hhmm)
	}
	h, m, _ := strings.Cut(hhmm, ":")
	hour, _ = strconv.Atoi(h)
	minute, _ = strconv.Atoi(m)
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", core.ErrInvalidTime, hhmm)
	}
	return hour, minute, nil
}

// ShouldFire reports whether hhmm on now's civil date lies within
// [now-interval, now]. Malformed times never fire.
func ShouldFire(now time.Time, hhmm string, interval time.Duration) bool {
	hour, minute, err := ParseTime(hhmm)
	if err != nil {
		return false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	diff := now.Sub(target)
	return diff >= 0 && diff < interval
}

// Snap keeps hhmm fireable on ticks aligned to midnight. A time whose first
// tick at or after it falls on the next day is moved back to the last tick of
// its own day; any other time is returned unchanged.
func Snap(hhmm string, interval time.Duration) string {
	hour, minute, err := ParseTime(hhmm)
	step := int(interval / time.Minute)
	if err != nil || step <= 1 {
		return hhmm
	}

	const day = 24 * 60
	m := hour*60 + minute
	if next := (m + step - 1) / step * step; next < day {
		return hhmm
	}
	last := (day - 1) / step * step
	return fmt.Sprintf("%02d:%02d", last/60, last%60)
}

// Push is one planned reminder.
type Push struct {
	UserID string
	Slot   core.Slot
	Day    calendar.Weekday
	Entry  core.ScheduleEntry
}

// Plan returns the reminders due at now. It has no side effects.
func Plan(now time.Time, loc *time.Location, interval time.Duration, users []core.User, entries []core.ScheduleEntry) []Push {
	now = now.In(loc)

	byUser := make(map[string][]core.ScheduleEntry)
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	var pushes []Push
	for _, u := range users {
		if !u.Active() {
			continue
		}
		for _, slot := range core.Slots() {
			if !ShouldFire(now, u.ReminderTime(slot), interval) {
				continue
			}

			day := calendar.Of(now, loc)
			if slot == core.SlotNight {
				day = calendar.Tomorrow(now, loc)
			}

			entry, ok := core.FindDay(byUser[u.ID], day)
			if !ok {
				continue
			}
			pushes = append(pushes, Push{UserID: u.ID, Slot: slot, Day: day, Entry: entry})
		}
	}
	return pushes
}

// Report summarizes one tick.
type Report struct {
	Planned int
	Sent    int
	Failed  int
}

type Engine struct {
	users     core.UserRepository
	schedules core.ScheduleRepository
	gateway   core.Gateway
	render    *render.Formatter
	loc       *time.Location
	interval  time.Duration
	now       func() time.Time
}

func NewEngine(
	users core.UserRepository,
	schedules core.ScheduleRepository,
	gateway core.Gateway,
	formatter *render.Formatter,
	loc *time.Location,
	interval time.Duration,
) *Engine {
	return &Engine{
		users:     users,
		schedules: schedules,
		gateway:   gateway,
		render:    formatter,
		loc:       loc,
		interval:  interval,
		now:       time.Now,
	}
}

func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Due loads the stores and plans the reminders for the current instant.
func (e *Engine) Due(ctx context.Context) ([]Push, error) {
	users, err := e.users.GetActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active users: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	entries, err := e.schedules.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	return Plan(e.now(), e.loc, e.interval, users, entries), nil
}

// Run executes one tick. A failure for one user does not stop the others,
// and a panic is recovered and reported as an error.
func (e *Engine) Run(ctx context.Context) (report Report, err error) {
	logger := log.FromCtx(ctx).With().Str("component", "reminder").Logger()
	start := time.Now()

	defer func() {
		metrics.ReminderTickDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("reminder tick panicked")
			err = fmt.Errorf("reminder tick panicked: %v", r)
		}
	}()

	pushes, err := e.Due(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reminder tick failed")
		return report, err
	}
	report.Planned = len(pushes)

	for _, p := range pushes {
		if err := e.deliver(ctx, p); err != nil {
			report.Failed++
			metrics.RemindersTotal.WithLabelValues(string(p.Slot), metrics.ResultError).Inc()
			logger.Error().Err(err).Str("user_id", p.UserID).Str("slot", string(p.Slot)).Msg("failed to push reminder")
			continue
		}
		report.Sent++
		metrics.RemindersTotal.WithLabelValues(string(p.Slot), metrics.ResultOK).Inc()
		logger.Info().Str("user_id", p.UserID).Str("slot", string(p.Slot)).Str("day", p.Day.String()).Msg("reminder sent")
	}

	if report.Planned > 0 {
		logger.Info().Int("planned", report.Planned).Int("sent", report.Sent).Int("failed", report.Failed).Msg("reminder tick done")
	}
	return report, nil
}

// deliver renders and pushes one reminder. A panic is contained to this push.
func (e *Engine) deliver(ctx context.Context, p Push) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Str("user_id", p.UserID).
				Msg("reminder push panicked")
			err = fmt.Errorf("reminder push panicked: %v", r)
		}
	}()

	msg := e.render.Reminder(p.Slot, p.Day, p.Entry)
	return e.gateway.Push(ctx, p.UserID, []core.Message{msg})
}
