package core

// MessageType selects how a gateway renders a Message.
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageCard     MessageType = "card"
	MessageCarousel MessageType = "carousel"
)

type ActionType string

const (
	ActionMessage    ActionType = "message"    // sends Text back as if typed
	ActionPostback   ActionType = "postback"   // sends Data silently
	ActionTimePicker ActionType = "timepicker" // postback with a picked HH:MM
)

type Action struct {
	Type    ActionType
	Label   string
	Text    string
	Data    string
	Initial string // timepicker default
}

type CardTone string

const (
	ToneDefault CardTone = ""
	TonePrimary CardTone = "primary"
	ToneSuccess CardTone = "success"
	ToneMuted   CardTone = "muted"
)

// Card is a channel-neutral rich block: header, body lines and buttons.
type Card struct {
	Title    string
	Subtitle string
	Body     string
	Note     string
	Tone     CardTone
	Compact  bool
	Tap      *Action
	Buttons  []Action
}

// Message is an outbound message produced by the renderer.
type Message struct {
	Type         MessageType
	Text         string
	AltText      string
	Cards        []Card
	QuickReplies []Action
}
