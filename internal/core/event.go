package core

type EventType string

const (
	EventMessage  EventType = "message"
	EventPostback EventType = "postback"
	EventFollow   EventType = "follow"
	EventUnfollow EventType = "unfollow"
)

// Event is an inbound user event normalized by a transport.
type Event struct {
	ID         string
	Type       EventType
	UserID     string
	ReplyToken string
	Text       string
	Postback   string
	Params     map[string]string
}
