package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gomibot/pkg/log"
)

type ReminderConfig struct {
	Enabled bool `env:"GOMI_REMINDER_ENABLED" envDefault:"true"`
	// Tick period. Stored reminder times fire when they fall inside one window.
	Interval time.Duration `env:"GOMI_REMINDER_INTERVAL" envDefault:"5m"`
}

func NewReminderConfig(ctx context.Context) *ReminderConfig {
	c := &ReminderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Reminder config")
	}
	if c.Interval < time.Minute {
		log.FromCtx(ctx).Fatal().Dur("interval", c.Interval).Msg("reminder interval must be at least one minute")
	}
	return c
}
