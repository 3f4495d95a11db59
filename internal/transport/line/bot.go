// Package line is the LINE Messaging API transport: webhook intake, reply and
// push.
package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/metrics"
	"github.com/sandevgo/gomibot/pkg/log"
)

const (
	maxBodyBytes   = 1 << 20
	dedupTTL       = 10 * time.Minute
	processTimeout = 30 * time.Second
)

// Deduper records keys that were already seen.
type Deduper interface {
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) bool
}

type Bot struct {
	secret     string
	client     *Client
	dispatcher core.Dispatcher
	dedup      Deduper
}

func NewBot(channelSecret string, client *Client, dispatcher core.Dispatcher, dedup Deduper) *Bot {
	return &Bot{
		secret:     channelSecret,
		client:     client,
		dispatcher: dispatcher,
		dedup:      dedup,
	}
}

func (b *Bot) Channel() string {
	return core.ChannelLINE
}

// Push delivers messages to a channel-qualified LINE user id.
func (b *Bot) Push(ctx context.Context, userID string, messages []core.Message) error {
	channel, id, ok := core.SplitUserID(userID)
	if !ok || channel != core.ChannelLINE {
		return fmt.Errorf("%w: %s", core.ErrUnknownChannel, userID)
	}
	return b.client.Push(ctx, id, Messages(messages))
}

// HandleWebhook verifies and acknowledges a webhook call, then processes its
// events in the background.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	hook, err := webhook.ParseRequest(b.secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			logger.Warn().Msg("line: signature verification failed")
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		logger.Error().Err(err).Msg("line: failed to parse webhook")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// LINE expects 200 OK immediately to prevent retries.
	w.WriteHeader(http.StatusOK)

	if len(hook.Events) == 0 {
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, processTimeout)
		defer cancel()
		b.Process(ctx, hook.Events)
	}()
}

// Process handles events in order. It is exported for synchronous use in tests.
func (b *Bot) Process(ctx context.Context, events []webhook.EventInterface) {
	for _, raw := range events {
		b.processOne(ctx, raw)
	}
}

func (b *Bot) processOne(ctx context.Context, raw webhook.EventInterface) {
	ev, redelivery, ok := toEvent(raw)

	logger := log.FromCtx(ctx).With().
		Str("line_event", raw.GetType()).
		Str("webhook_event_id", ev.ID).
		Logger()
	ctx = logger.WithContext(ctx)

	if !ok {
		logger.Debug().Msg("line: ignoring event")
		return
	}
	metrics.EventsTotal.WithLabelValues(core.ChannelLINE, string(ev.Type)).Inc()

	if ev.ID != "" && !b.dedup.SetIfAbsent(ctx, "line-event:"+ev.ID, []byte{1}, dedupTTL) {
		logger.Info().Bool("redelivery", redelivery).Msg("line: duplicate event skipped")
		return
	}

	msgs := b.dispatcher.Dispatch(ctx, ev)
	if len(msgs) == 0 {
		return
	}

	if ev.ReplyToken == "" {
		logger.Warn().Msg("line: no reply token for response")
		return
	}
	if err := b.client.Reply(ctx, ev.ReplyToken, Messages(msgs)); err != nil {
		logger.Error().Err(err).Msg("line: reply failed")
	}
}

// toEvent maps 1:1 chat events to core events. Group and room traffic, and
// message types other than text, are dropped.
func toEvent(raw webhook.EventInterface) (ev core.Event, redelivery bool, ok bool) {
	var (
		src webhook.SourceInterface
		dc  *webhook.DeliveryContext
	)

	switch e := raw.(type) {
	case webhook.MessageEvent:
		text, isText := e.Message.(webhook.TextMessageContent)
		if !isText {
			return core.Event{ID: e.WebhookEventId}, false, false
		}
		src, dc = e.Source, e.DeliveryContext
		ev = core.Event{ID: e.WebhookEventId, Type: core.EventMessage, ReplyToken: e.ReplyToken, Text: text.Text}
	case webhook.PostbackEvent:
		if e.Postback == nil {
			return core.Event{ID: e.WebhookEventId}, false, false
		}
		src, dc = e.Source, e.DeliveryContext
		ev = core.Event{
			ID:         e.WebhookEventId,
			Type:       core.EventPostback,
			ReplyToken: e.ReplyToken,
			Postback:   e.Postback.Data,
			Params:     e.Postback.Params,
		}
	case webhook.FollowEvent:
		src, dc = e.Source, e.DeliveryContext
		ev = core.Event{ID: e.WebhookEventId, Type: core.EventFollow, ReplyToken: e.ReplyToken}
	case webhook.UnfollowEvent:
		src, dc = e.Source, e.DeliveryContext
		ev = core.Event{ID: e.WebhookEventId, Type: core.EventUnfollow}
	default:
		return core.Event{}, false, false
	}

	if dc != nil {
		redelivery = dc.IsRedelivery
	}

	user, isUser := src.(webhook.UserSource)
	if !isUser || user.UserId == "" {
		return core.Event{ID: ev.ID}, redelivery, false
	}
	ev.UserID = core.NewUserID(core.ChannelLINE, user.UserId)
	return ev, redelivery, true
}
