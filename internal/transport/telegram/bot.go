// Package telegram is the Telegram transport. Users chat with the bot in a
// private chat; buttons are inline keyboards answered through callbacks.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/config"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/metrics"
	"github.com/sandevgo/gomibot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot        *tele.Bot
	sender     *sender
	dispatcher core.Dispatcher
	cat        *catalog.Catalog
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	dispatcher core.Dispatcher,
	cat *catalog.Catalog,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		sender:     newSender(b),
		dispatcher: dispatcher,
		cat:        cat,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: private chats only
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Chat() == nil || c.Chat().Type != tele.ChatPrivate || c.Sender() == nil {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnCallback, bot.handleCallback)
	b.Handle(tele.OnMyChatMember, bot.handleMembership)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("username", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) Channel() string {
	return core.ChannelTelegram
}

// Push sends messages to a channel-qualified Telegram user id.
func (b *Bot) Push(ctx context.Context, userID string, messages []core.Message) error {
	chatID, err := ParseUserID(userID)
	if err != nil {
		return err
	}

	result := metrics.ResultOK
	err = b.sender.send(ctx, tele.ChatID(chatID), Messages(messages))
	if err != nil {
		result = metrics.ResultError
	}
	metrics.GatewayRequests.WithLabelValues(core.ChannelTelegram, "push", result).Inc()
	return err
}

// ParseUserID extracts the chat id from a telegram:<id> user id.
func ParseUserID(userID string) (int64, error) {
	channel, raw, ok := core.SplitUserID(userID)
	if !ok || channel != core.ChannelTelegram {
		return 0, fmt.Errorf("%w: %s", core.ErrUnknownChannel, userID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram user id %q: %w", userID, err)
	}
	return id, nil
}

func (b *Bot) handleStart(c tele.Context) error {
	return b.dispatch(c, b.newEvent(c, core.EventFollow))
}

func (b *Bot) handleText(c tele.Context) error {
	ev := b.newEvent(c, core.EventMessage)
	ev.Text = c.Text()
	return b.dispatch(c, ev)
}

func (b *Bot) handleCallback(c tele.Context) error {
	_ = c.Respond()

	data := c.Callback().Data
	if initial, postback, ok := parsePick(data); ok {
		return c.Send(b.cat.Get(catalog.ReminderPickTime), TimePresets(initial, postback))
	}

	return b.dispatch(c, CallbackEvent(b.newEvent(c, core.EventPostback), data))
}

func (b *Bot) handleMembership(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.NewChatMember == nil || upd.NewChatMember.Role != tele.Kicked {
		return nil
	}
	return b.dispatch(c, b.newEvent(c, core.EventUnfollow))
}

func (b *Bot) newEvent(c tele.Context, typ core.EventType) core.Event {
	return core.Event{
		ID:     "telegram-" + strconv.Itoa(c.Update().ID),
		Type:   typ,
		UserID: core.NewUserID(core.ChannelTelegram, strconv.FormatInt(c.Sender().ID, 10)),
	}
}

func (b *Bot) dispatch(c tele.Context, ev core.Event) error {
	ctx := c.Get(baseContextKey).(context.Context)
	ctx = log.With(ctx, "telegram_event", string(ev.Type), "user_id", ev.UserID)
	metrics.EventsTotal.WithLabelValues(core.ChannelTelegram, string(ev.Type)).Inc()

	msgs := b.dispatcher.Dispatch(ctx, ev)
	if len(msgs) == 0 || ev.Type == core.EventUnfollow {
		return nil
	}

	_ = c.Notify(tele.Typing)
	if err := b.sender.send(ctx, c.Recipient(), Messages(msgs)); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to send telegram reply")
	}
	return nil
}

// CallbackEvent maps inline button data onto an event. Data with the say:
// prefix behaves like typed text, anything else is a postback.
func CallbackEvent(ev core.Event, data string) core.Event {
	if text, ok := strings.CutPrefix(data, sayPrefix); ok {
		ev.Type = core.EventMessage
		ev.Text = text
		return ev
	}
	ev.Type = core.EventPostback
	ev.Postback = data
	return ev
}

func parsePick(data string) (initial, postback string, ok bool) {
	rest, ok := strings.CutPrefix(data, pickPrefix)
	if !ok {
		return "", "", false
	}
	return strings.Cut(rest, "|")
}
