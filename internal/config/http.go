package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gomibot/pkg/log"
)

type HTTPConfig struct {
	Addr         string        `env:"GOMI_HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"GOMI_HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"GOMI_HTTP_WRITE_TIMEOUT" envDefault:"10s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
