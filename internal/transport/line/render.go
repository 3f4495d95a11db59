package line

import (
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sandevgo/gomibot/internal/core"
)

const (
	maxTextRunes       = 5000
	maxAltTextRunes    = 400
	maxQuickReplies    = 13
	maxQuickLabelRunes = 20
	maxActionLabel     = 40
	maxBubbles         = 12
)

var toneColors = map[core.CardTone]string{
	core.ToneDefault: "#1DB446",
	core.TonePrimary: "#2E7D32",
	core.ToneSuccess: "#1976D2",
	core.ToneMuted:   "#9E9E9E",
}

// Messages converts rendered messages into Messaging API payloads.
func Messages(msgs []core.Message) []messaging_api.MessageInterface {
	out := make([]messaging_api.MessageInterface, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message(m))
	}
	return out
}

func Message(m core.Message) messaging_api.MessageInterface {
	var quick *messaging_api.QuickReply
	if len(m.QuickReplies) > 0 {
		quick = quickReplies(m.QuickReplies)
	}

	switch m.Type {
	case core.MessageCard, core.MessageCarousel:
		var contents messaging_api.FlexContainerInterface
		if m.Type == core.MessageCard && len(m.Cards) == 1 {
			contents = bubble(m.Cards[0])
		} else {
			cards := m.Cards
			if len(cards) > maxBubbles {
				cards = cards[:maxBubbles]
			}
			bubbles := make([]messaging_api.FlexBubble, 0, len(cards))
			for _, c := range cards {
				bubbles = append(bubbles, *bubble(c))
			}
			contents = &messaging_api.FlexCarousel{Contents: bubbles}
		}

		alt := m.AltText
		if alt == "" {
			alt = m.Text
		}
		return messaging_api.FlexMessage{
			AltText:    truncate(alt, maxAltTextRunes),
			Contents:   contents,
			QuickReply: quick,
		}

	default:
		return messaging_api.TextMessage{
			Text:       truncate(m.Text, maxTextRunes),
			QuickReply: quick,
		}
	}
}

func bubble(c core.Card) *messaging_api.FlexBubble {
	color := toneColors[c.Tone]

	header := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{Text: nonEmpty(c.Title), Weight: messaging_api.FlexTextWEIGHT_BOLD, Size: "md", Color: "#FFFFFF", Wrap: true},
	}
	if c.Subtitle != "" && c.Subtitle != c.Title {
		header = append(header, &messaging_api.FlexText{Text: c.Subtitle, Size: "sm", Color: "#FFFFFFCC", Wrap: true})
	}

	bodySize := "xl"
	if c.Compact {
		bodySize = "lg"
	}
	body := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{Text: nonEmpty(c.Body), Weight: messaging_api.FlexTextWEIGHT_BOLD, Size: bodySize, Wrap: true},
	}
	if c.Note != "" {
		body = append(body,
			&messaging_api.FlexSeparator{Margin: "md"},
			&messaging_api.FlexText{Text: "📝 " + c.Note, Size: "sm", Color: "#666666", Wrap: true, Margin: "md"},
		)
	}

	b := &messaging_api.FlexBubble{
		Header: &messaging_api.FlexBox{
			Layout:          messaging_api.FlexBoxLAYOUT_VERTICAL,
			Contents:        header,
			BackgroundColor: color,
		},
		Body: &messaging_api.FlexBox{
			Layout:   messaging_api.FlexBoxLAYOUT_VERTICAL,
			Contents: body,
			Spacing:  "sm",
		},
	}
	if c.Compact {
		b.Size = messaging_api.FlexBubbleSIZE_KILO
	}
	if c.Tap != nil {
		b.Action = action(*c.Tap, maxActionLabel)
	}

	if len(c.Buttons) > 0 {
		buttons := make([]messaging_api.FlexComponentInterface, 0, len(c.Buttons))
		for i, a := range c.Buttons {
			style, btnColor := messaging_api.FlexButtonSTYLE_SECONDARY, "#EEEEEE"
			if i == 0 {
				style, btnColor = messaging_api.FlexButtonSTYLE_PRIMARY, color
			}
			buttons = append(buttons, &messaging_api.FlexButton{
				Style:  style,
				Height: messaging_api.FlexButtonHEIGHT_SM,
				Color:  btnColor,
				Action: action(a, maxActionLabel),
			})
		}
		b.Footer = &messaging_api.FlexBox{
			Layout:   messaging_api.FlexBoxLAYOUT_VERTICAL,
			Spacing:  "sm",
			Contents: buttons,
		}
	}
	return b
}

func action(a core.Action, labelLimit int) messaging_api.ActionInterface {
	label := truncate(a.Label, labelLimit)
	switch a.Type {
	case core.ActionMessage:
		return &messaging_api.MessageAction{Label: label, Text: a.Text}
	case core.ActionTimePicker:
		return &messaging_api.DatetimePickerAction{
			Label:   label,
			Data:    a.Data,
			Mode:    messaging_api.DatetimePickerActionMODE_TIME,
			Initial: a.Initial,
		}
	default:
		return &messaging_api.PostbackAction{Label: label, Data: a.Data}
	}
}

func quickReplies(actions []core.Action) *messaging_api.QuickReply {
	if len(actions) > maxQuickReplies {
		actions = actions[:maxQuickReplies]
	}
	items := make([]messaging_api.QuickReplyItem, 0, len(actions))
	for _, a := range actions {
		items = append(items, messaging_api.QuickReplyItem{Type: "action", Action: action(a, maxQuickLabelRunes)})
	}
	return &messaging_api.QuickReply{Items: items}
}

// nonEmpty guards flex text components, which reject empty strings.
func nonEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return " "
	}
	return s
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
