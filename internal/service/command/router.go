// Package command maps inbound events to handlers through an ordered route list.
package command

import (
	"context"
	"runtime/debug"
	"strings"

	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/metrics"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/pkg/log"
)

type (
	Predicate func(ctx context.Context, ev core.Event) bool
	Handler   func(ctx context.Context, ev core.Event) []core.Message
)

// Route is one (name, predicate, handler) entry. The first matching route wins.
type Route struct {
	Name   string
	Match  Predicate
	Handle Handler
}

type Router struct {
	routes []Route
	render *render.Formatter
}

func New(routes []Route, formatter *render.Formatter) *Router {
	return &Router{
		routes: routes,
		render: formatter,
	}
}

// Dispatch runs the first matching route on the trimmed event text. A nil
// result means no reply.
// Panics are recovered and answered with the generic error message.
func (r *Router) Dispatch(ctx context.Context, ev core.Event) (messages []core.Message) {
	logger := log.FromCtx(ctx).With().
		Str("user_id", ev.UserID).
		Str("event", string(ev.Type)).
		Logger()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("event handler panicked")
			messages = []core.Message{r.render.Error()}
		}
	}()

	ev.Text = strings.TrimSpace(ev.Text)

	for _, route := range r.routes {
		if !route.Match(ctx, ev) {
			continue
		}
		metrics.RoutesTotal.WithLabelValues(route.Name).Inc()
		logger.Debug().Str("route", route.Name).Msg("dispatching event")
		return route.Handle(ctx, ev)
	}

	metrics.RoutesTotal.WithLabelValues("none").Inc()
	return nil
}

func (r *Router) Routes() []Route {
	return r.routes
}

func isText(ev core.Event, texts ...string) bool {
	if ev.Type != core.EventMessage {
		return false
	}
	for _, t := range texts {
		if ev.Text == t {
			return true
		}
	}
	return false
}

func textIs(texts ...string) Predicate {
	return func(_ context.Context, ev core.Event) bool {
		return isText(ev, texts...)
	}
}

func eventIs(t core.EventType) Predicate {
	return func(_ context.Context, ev core.Event) bool {
		return ev.Type == t
	}
}
