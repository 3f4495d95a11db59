package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/pkg/conv"
	tele "gopkg.in/telebot.v3"
)

const (
	maxCallbackData = 64 // Bot API limit in bytes
	sayPrefix       = "say:"
	pickPrefix      = "pick:"

	buttonsPerRow = 2
	repliesPerRow = 4
	presetsPerRow = 4

	presetStep  = 30 * time.Minute
	presetRange = 3 * time.Hour
)

// Rendered is one outbound Telegram message.
type Rendered struct {
	HTML   string
	Markup *tele.ReplyMarkup
}

func Messages(msgs []core.Message) []Rendered {
	out := make([]Rendered, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message(m))
	}
	return out
}

// Message renders text as HTML and every action as an inline button.
func Message(m core.Message) Rendered {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(render.Markdown(m))))
	if html == "" {
		html = strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(conv.EscapeMarkdown(m.AltText))))
	}

	var rows [][]tele.InlineButton
	var taps []tele.InlineButton
	for _, c := range m.Cards {
		if c.Tap != nil {
			tap := *c.Tap
			if tap.Label == "" {
				tap.Label = c.Title
			}
			if b, ok := button(tap); ok {
				taps = append(taps, b)
			}
		}
		var btns []tele.InlineButton
		for _, a := range c.Buttons {
			if b, ok := button(a); ok {
				btns = append(btns, b)
			}
		}
		rows = append(rows, chunk(btns, buttonsPerRow)...)
	}
	rows = append(rows, chunk(taps, buttonsPerRow)...)

	var replies []tele.InlineButton
	for _, a := range m.QuickReplies {
		if b, ok := button(a); ok {
			replies = append(replies, b)
		}
	}
	rows = append(rows, chunk(replies, repliesPerRow)...)

	out := Rendered{HTML: html}
	if len(rows) > 0 {
		out.Markup = &tele.ReplyMarkup{InlineKeyboard: rows}
	}
	return out
}

func button(a core.Action) (tele.InlineButton, bool) {
	label := a.Label
	var data string
	switch a.Type {
	case core.ActionMessage:
		data = sayPrefix + a.Text
		if label == "" {
			label = a.Text
		}
	case core.ActionTimePicker:
		data = pickPrefix + a.Initial + "|" + a.Data
	default:
		data = a.Data
	}

	if label == "" || data == "" || len(data) > maxCallbackData {
		return tele.InlineButton{}, false
	}
	return tele.InlineButton{Text: label, Data: data}, true
}

// TimePresets lays out preset times around initial, each completing the
// postback with a time value.
func TimePresets(initial, postback string) *tele.ReplyMarkup {
	center, err := time.Parse("15:04", initial)
	if err != nil {
		center, _ = time.Parse("15:04", "12:00")
	}

	var btns []tele.InlineButton
	for d := -presetRange; d <= presetRange; d += presetStep {
		hhmm := center.Add(d).Format("15:04")
		data := fmt.Sprintf("%s&time=%s", postback, hhmm)
		if len(data) > maxCallbackData {
			continue
		}
		btns = append(btns, tele.InlineButton{Text: hhmm, Data: data})
	}
	return &tele.ReplyMarkup{InlineKeyboard: chunk(btns, presetsPerRow)}
}

func chunk(btns []tele.InlineButton, size int) [][]tele.InlineButton {
	var rows [][]tele.InlineButton
	for len(btns) > 0 {
		n := min(size, len(btns))
		rows = append(rows, btns[:n])
		btns = btns[n:]
	}
	return rows
}
