package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gomibot/pkg/log"
)

type LINEConfig struct {
	ChannelSecret string `env:"LINE_CHANNEL_SECRET,required,notEmpty"`
	AccessToken   string `env:"LINE_CHANNEL_ACCESS_TOKEN,required,notEmpty"`
	APIBase       string `env:"LINE_API_BASE" envDefault:"https://api.line.me"`
}

func NewLINEConfig(ctx context.Context) *LINEConfig {
	c := &LINEConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LINE config")
	}
	return c
}
