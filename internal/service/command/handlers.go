package command

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/dialogue"
	"github.com/sandevgo/gomibot/internal/service/reminder"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/pkg/log"
)

// Handlers implements the fixed commands.
type Handlers struct {
	users     core.UserRepository
	schedules core.ScheduleRepository
	dialogue  *dialogue.Service
	render    *render.Formatter
	loc       *time.Location
	interval  time.Duration
	now       func() time.Time
}

func NewHandlers(
	users core.UserRepository,
	schedules core.ScheduleRepository,
	dlg *dialogue.Service,
	formatter *render.Formatter,
	loc *time.Location,
	reminderInterval time.Duration,
) *Handlers {
	return &Handlers{
		users:     users,
		schedules: schedules,
		dialogue:  dlg,
		render:    formatter,
		loc:       loc,
		interval:  reminderInterval,
		now:       time.Now,
	}
}

func (h *Handlers) msgs(m ...core.Message) []core.Message {
	return m
}

func (h *Handlers) failed(ctx context.Context, err error, msg string) []core.Message {
	log.FromCtx(ctx).Error().Err(err).Msg(msg)
	return h.msgs(h.render.Error())
}

// member lets only active users through; others are asked to register or rejoin.
func (h *Handlers) member(next Handler) Handler {
	return func(ctx context.Context, ev core.Event) []core.Message {
		u, err := h.users.Get(ctx, ev.UserID)
		switch {
		case errors.Is(err, core.ErrNotFound):
			return h.msgs(h.render.RegisterPrompt(catalog.RegistrationPrompt))
		case err != nil:
			return h.failed(ctx, err, "failed to load user")
		case !u.Active():
			return h.msgs(h.render.ReactivatePrompt(catalog.UnregistrationUnsubscribed))
		}
		return next(ctx, ev)
	}
}

func (h *Handlers) Continue(ctx context.Context, ev core.Event) []core.Message {
	return h.dialogue.Continue(ctx, ev.UserID, ev.Text)
}

func (h *Handlers) Help(context.Context, core.Event) []core.Message {
	return h.msgs(h.render.Help())
}

func (h *Handlers) Fallback(context.Context, core.Event) []core.Message {
	return h.msgs(h.render.Menu(catalog.CommonFallback))
}

func (h *Handlers) Register(ctx context.Context, ev core.Event) []core.Message {
	u, err := h.users.Get(ctx, ev.UserID)
	if err == nil && !u.Active() {
		return h.Reactivate(ctx, ev)
	}
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return h.failed(ctx, err, "failed to load user")
	}

	created, err := h.users.Register(ctx, ev.UserID)
	if err != nil {
		return h.failed(ctx, err, "failed to register user")
	}
	if err := h.schedules.Seed(ctx, ev.UserID); err != nil {
		return h.failed(ctx, err, "failed to seed schedule")
	}
	if created {
		log.FromCtx(ctx).Info().Str("user_id", ev.UserID).Msg("user registered")
	}
	return h.msgs(h.render.Menu(catalog.RegistrationSuccess))
}

func (h *Handlers) Reactivate(ctx context.Context, ev core.Event) []core.Message {
	u, err := h.users.Get(ctx, ev.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return h.msgs(h.render.RegisterPrompt(catalog.RegistrationPrompt))
	}
	if err != nil {
		return h.failed(ctx, err, "failed to load user")
	}
	if u.Active() {
		return h.msgs(h.render.Menu(catalog.EventFollowWelcomeBack))
	}

	if err := h.users.SetStatus(ctx, ev.UserID, core.UserActive); err != nil {
		return h.failed(ctx, err, "failed to reactivate user")
	}
	log.FromCtx(ctx).Info().Str("user_id", ev.UserID).Msg("user reactivated")
	return h.msgs(h.render.Menu(catalog.UnregistrationReactivate))
}

func (h *Handlers) Unsubscribe(ctx context.Context, ev core.Event) []core.Message {
	if err := h.users.SetStatus(ctx, ev.UserID, core.UserUnsubscribed); err != nil {
		return h.failed(ctx, err, "failed to unsubscribe user")
	}
	log.FromCtx(ctx).Info().Str("user_id", ev.UserID).Msg("user unsubscribed")
	return h.msgs(h.render.Text(catalog.UnregistrationSuccess))
}

func (h *Handlers) Follow(ctx context.Context, ev core.Event) []core.Message {
	u, err := h.users.Get(ctx, ev.UserID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return h.msgs(h.render.RegisterPrompt(catalog.EventFollowNew))
	case err != nil:
		return h.failed(ctx, err, "failed to load user")
	case !u.Active():
		return h.msgs(h.render.ReactivatePrompt(catalog.EventFollowRejoinPrompt))
	}
	return h.msgs(h.render.Menu(catalog.EventFollowWelcomeBack))
}

// Unfollow marks the user unsubscribed. Blocked users cannot receive a reply.
func (h *Handlers) Unfollow(ctx context.Context, ev core.Event) []core.Message {
	err := h.users.SetStatus(ctx, ev.UserID, core.UserUnsubscribed)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", ev.UserID).Msg("failed to mark user unsubscribed")
	}
	return nil
}

func (h *Handlers) List(ctx context.Context, ev core.Event) []core.Message {
	entries, err := h.schedules.GetByUser(ctx, ev.UserID)
	if err != nil {
		return h.failed(ctx, err, "failed to load schedule")
	}
	if len(entries) == 0 {
		return h.msgs(h.render.Menu(catalog.QuerySheetEmpty))
	}
	return h.render.Schedule(entries)
}

func (h *Handlers) Query(ctx context.Context, ev core.Event) []core.Message {
	entries, err := h.schedules.GetByUser(ctx, ev.UserID)
	if err != nil {
		return h.failed(ctx, err, "failed to load schedule")
	}
	if len(entries) == 0 {
		return h.msgs(h.render.Menu(catalog.QuerySheetEmpty))
	}

	now := h.now()
	day, title := calendar.Of(now, h.loc), catalog.QueryTodayTitle
	if ev.Text == core.KeywordTomorrow || ev.Text == core.KeywordTomorrowKana {
		day, title = calendar.Tomorrow(now, h.loc), catalog.QueryTomorrowTitle
	}

	entry, ok := core.FindDay(entries, day)
	if !ok {
		return h.msgs(h.render.Menu(catalog.QueryNotFound, ev.Text))
	}
	return h.msgs(h.render.DayCard(title, day, entry))
}

func (h *Handlers) Reminder(ctx context.Context, ev core.Event) []core.Message {
	u, err := h.users.Get(ctx, ev.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return h.msgs(h.render.Text(catalog.ReminderUserNotFound))
	}
	if err != nil {
		return h.failed(ctx, err, "failed to load user")
	}
	return h.msgs(h.render.ReminderSettings(u))
}

func (h *Handlers) Postback(ctx context.Context, ev core.Event) []core.Message {
	pb, err := core.ParsePostback(ev.Postback)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("malformed postback")
		return h.msgs(h.render.Error())
	}

	switch pb.Action {
	case core.PostbackStartChange:
		msgs, err := h.dialogue.Start(ctx, ev.UserID, pb.Get("day"))
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("rejected modification start")
			return h.msgs(h.render.Error())
		}
		return msgs

	case core.PostbackSetReminder:
		slot, ok := core.ParseSlot(pb.Get("slot"))
		if !ok {
			return h.msgs(h.render.Error())
		}
		hhmm := ev.Params["time"]
		if hhmm == "" {
			hhmm = pb.Get("time")
		}
		if _, _, err := reminder.ParseTime(hhmm); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("rejected reminder time")
			return h.msgs(h.render.Error())
		}
		if snapped := reminder.Snap(hhmm, h.interval); snapped != hhmm {
			log.FromCtx(ctx).Info().Str("picked", hhmm).Str("stored", snapped).Msg("reminder time moved onto the last tick of the day")
			hhmm = snapped
		}
		if err := h.users.SetReminderTime(ctx, ev.UserID, slot, hhmm); err != nil {
			return h.failed(ctx, err, "failed to set reminder time")
		}
		return h.msgs(h.render.Menu(catalog.ReminderUpdated, h.render.SlotLabel(slot), hhmm))

	case core.PostbackClearReminder:
		slot, ok := core.ParseSlot(pb.Get("slot"))
		if !ok {
			return h.msgs(h.render.Error())
		}
		if err := h.users.SetReminderTime(ctx, ev.UserID, slot, ""); err != nil {
			return h.failed(ctx, err, "failed to clear reminder time")
		}
		return h.msgs(h.render.Menu(catalog.ReminderCleared, h.render.SlotLabel(slot)))
	}

	log.FromCtx(ctx).Warn().Str("action", pb.Action).Msg("unknown postback action")
	return h.msgs(h.render.Error())
}
