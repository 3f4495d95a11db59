// Package transport routes outbound pushes to the channel a user belongs to.
package transport

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/gomibot/internal/core"
)

// Mux is a Gateway that forwards each push to the gateway registered for the
// user's channel prefix.
type Mux struct {
	gateways map[string]core.Gateway
}

func NewMux(gateways ...core.Gateway) *Mux {
	m := &Mux{gateways: make(map[string]core.Gateway, len(gateways))}
	for _, g := range gateways {
		m.Register(g)
	}
	return m
}

func (m *Mux) Register(g core.Gateway) {
	m.gateways[g.Channel()] = g
}

// Channel lists the registered channels.
func (m *Mux) Channel() string {
	names := make([]string, 0, len(m.gateways))
	for name := range m.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}

func (m *Mux) Push(ctx context.Context, userID string, messages []core.Message) error {
	channel, _, ok := core.SplitUserID(userID)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownChannel, userID)
	}
	g, ok := m.gateways[channel]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownChannel, userID)
	}
	return g.Push(ctx, userID, messages)
}
