package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/render"
)

const DefaultUser = "local"

// Console turns typed lines into events for a single local user.
type Console struct {
	dispatcher core.Dispatcher
	userID     string
	seq        int
}

func NewConsole(dispatcher core.Dispatcher, user string) *Console {
	if user == "" {
		user = DefaultUser
	}
	return &Console{
		dispatcher: dispatcher,
		userID:     core.NewUserID(core.ChannelCLI, user),
	}
}

func (c *Console) UserID() string {
	return c.userID
}

// Handle dispatches one line and returns the rendered reply.
func (c *Console) Handle(ctx context.Context, line string) string {
	ev, err := c.Event(line)
	if err != nil {
		return err.Error()
	}
	return Render(c.dispatcher.Dispatch(ctx, ev))
}

// Event parses a console line. Lines starting with a slash are commands:
//
//	/follow, /unfollow     simulate adding or blocking the bot
//	/postback <data>       send button data; a time=HH:MM value acts as the picked time
func (c *Console) Event(line string) (core.Event, error) {
	c.seq++
	ev := core.Event{
		ID:     fmt.Sprintf("cli-%d", c.seq),
		UserID: c.userID,
	}

	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "/follow":
		ev.Type = core.EventFollow
	case "/unfollow":
		ev.Type = core.EventUnfollow
	case "/postback":
		arg = strings.TrimSpace(arg)
		pb, err := core.ParsePostback(arg)
		if err != nil {
			return core.Event{}, err
		}
		ev.Type = core.EventPostback
		ev.Postback = arg
		if t := pb.Get("time"); t != "" {
			ev.Params = map[string]string{"time": t}
		}
	default:
		ev.Type = core.EventMessage
		ev.Text = line
	}
	return ev, nil
}

func Render(msgs []core.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, render.Plain(m))
	}
	return strings.Join(parts, "\n\n")
}
