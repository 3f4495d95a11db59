package command

import (
	"context"

	"github.com/sandevgo/gomibot/internal/core"
)

// NewRoutes returns the routes in priority order.
func NewRoutes(h *Handlers, fallbackMenu bool) []Route {
	routes := []Route{
		{
			Name: "session",
			Match: func(ctx context.Context, ev core.Event) bool {
				return ev.Type == core.EventMessage && h.dialogue.Active(ctx, ev.UserID)
			},
			Handle: h.Continue,
		},
		{Name: "follow", Match: eventIs(core.EventFollow), Handle: h.Follow},
		{Name: "unfollow", Match: eventIs(core.EventUnfollow), Handle: h.Unfollow},
		{Name: "postback", Match: eventIs(core.EventPostback), Handle: h.member(h.Postback)},
		{Name: "help", Match: textIs(core.KeywordUsage, core.KeywordHelp), Handle: h.Help},
		{Name: "register", Match: textIs(core.KeywordRegister), Handle: h.Register},
		{Name: "reactivate", Match: textIs(core.KeywordReactivate), Handle: h.Reactivate},
		{Name: "list", Match: textIs(core.KeywordList), Handle: h.member(h.List)},
		{Name: "unsubscribe", Match: textIs(core.KeywordUnsubscribe), Handle: h.member(h.Unsubscribe)},
		{Name: "reminder", Match: textIs(core.KeywordReminder), Handle: h.member(h.Reminder)},
		{
			Name:   "query",
			Match:  textIs(core.KeywordToday, core.KeywordTodayKana, core.KeywordTomorrow, core.KeywordTomorrowKana),
			Handle: h.member(h.Query),
		},
	}

	if fallbackMenu {
		routes = append(routes, Route{Name: "fallback", Match: eventIs(core.EventMessage), Handle: h.Fallback})
	}
	return routes
}
