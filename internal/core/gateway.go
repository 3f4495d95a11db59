package core

import "context"

// Gateway delivers messages outside of a reply window.
type Gateway interface {
	Channel() string
	Push(ctx context.Context, userID string, messages []Message) error
}
