package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gomibot/pkg/log"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendSQLite = "sqlite"
)

type SessionConfig struct {
	TTL     time.Duration `env:"GOMI_SESSION_TTL" envDefault:"300s"`
	Backend string        `env:"GOMI_SESSION_BACKEND" envDefault:"memory"`
}

func NewSessionConfig(ctx context.Context) *SessionConfig {
	c := &SessionConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Session config")
	}
	switch c.Backend {
	case SessionBackendMemory, SessionBackendSQLite:
	default:
		log.FromCtx(ctx).Fatal().Str("backend", c.Backend).Msg("unknown session backend")
	}
	return c
}
