package telegram

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/gomibot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// send delivers rendered messages in order. Long HTML is split and the
// keyboard goes with the last chunk.
func (s *sender) send(ctx context.Context, to tele.Recipient, msgs []Rendered) error {
	logger := log.FromCtx(ctx)

	for _, m := range msgs {
		chunks := splitHTML(m.HTML, maxTelegramMsgLen)
		for i, chunk := range chunks {
			opts := []interface{}{tele.ModeHTML}
			if i == len(chunks)-1 && m.Markup != nil {
				opts = append(opts, m.Markup)
			}

			if _, err := s.bot.Send(to, chunk, opts...); err != nil {
				logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
				return err
			}
		}
	}
	return nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
