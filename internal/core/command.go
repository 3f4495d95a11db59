package core

import "context"

// Dispatcher turns an inbound event into the messages to reply with.
// An empty result means the event is answered with silence.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) []Message
}
