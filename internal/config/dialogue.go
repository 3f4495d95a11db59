package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gomibot/pkg/log"
)

// DialogueConfig bounds user input in the edit conversation. Lengths count runes.
type DialogueConfig struct {
	ItemMaxLength int `env:"GOMI_ITEM_MAX_LENGTH" envDefault:"20"`
	NoteMaxLength int `env:"GOMI_NOTE_MAX_LENGTH" envDefault:"100"`
}

func NewDialogueConfig(ctx context.Context) *DialogueConfig {
	c := &DialogueConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Dialogue config")
	}
	return c
}
