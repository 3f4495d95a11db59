package render

import (
	"strings"

	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/pkg/conv"
)

// Markdown flattens a message into markdown for text-only channels.
// Buttons and quick replies are left to the caller.
func Markdown(msg core.Message) string {
	switch msg.Type {
	case core.MessageCard, core.MessageCarousel:
		parts := make([]string, 0, len(msg.Cards))
		for _, c := range msg.Cards {
			parts = append(parts, CardMarkdown(c))
		}
		return strings.Join(parts, "\n\n")
	default:
		return conv.EscapeMarkdown(msg.Text)
	}
}

func CardMarkdown(c core.Card) string {
	var sb strings.Builder
	sb.WriteString("**" + conv.EscapeMarkdown(c.Title) + "**")
	if c.Subtitle != "" && c.Subtitle != c.Title {
		sb.WriteString("  \n_" + conv.EscapeMarkdown(c.Subtitle) + "_")
	}
	if c.Body != "" {
		sb.WriteString("\n\n" + strings.ReplaceAll(conv.EscapeMarkdown(c.Body), "\n", "  \n"))
	}
	if c.Note != "" {
		sb.WriteString("\n\n> 📝 " + strings.ReplaceAll(conv.EscapeMarkdown(c.Note), "\n", "  \n"))
	}
	return sb.String()
}

// Plain renders a message as terminal text, listing its actions as hints.
func Plain(msg core.Message) string {
	text, err := conv.MarkdownToPlain([]byte(Markdown(msg)))
	if err != nil {
		text = msg.Text
	}

	var hints []string
	for _, c := range msg.Cards {
		if c.Tap != nil {
			hints = append(hints, actionHint(*c.Tap))
		}
		for _, b := range c.Buttons {
			hints = append(hints, actionHint(b))
		}
	}
	for _, q := range msg.QuickReplies {
		hints = append(hints, actionHint(q))
	}
	if len(hints) == 0 {
		return text
	}
	return text + "\n" + strings.Join(hints, "  ")
}

func actionHint(a core.Action) string {
	switch a.Type {
	case core.ActionMessage:
		return "[" + a.Text + "]"
	case core.ActionTimePicker:
		return "[" + a.Label + ": /postback " + a.Data + "&time=HH:MM]"
	default:
		return "[" + a.Label + ": /postback " + a.Data + "]"
	}
}
