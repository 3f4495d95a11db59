package session

import (
	"context"
	"time"

	"github.com/sandevgo/gomibot/pkg/log"
)

const DefaultSweepInterval = time.Minute

// Sweeper is a cache that can drop its expired entries.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweepers sweeps each cache in turn.
type Sweepers []Sweeper

func (s Sweepers) Sweep(ctx context.Context) (int, error) {
	total := 0
	for _, c := range s {
		n, err := c.Sweep(ctx)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Janitor periodically reclaims expired sessions.
type Janitor struct {
	cache    Sweeper
	interval time.Duration
}

func NewJanitor(cache Sweeper, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Janitor{cache: cache, interval: interval}
}

func (j *Janitor) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "session_janitor").Logger()
	logger.Info().Dur("interval", j.interval).Msg("starting session janitor")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down session janitor")
			return nil
		case <-ticker.C:
			n, err := j.cache.Sweep(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("cache sweep failed")
				continue
			}
			if n > 0 {
				logger.Debug().Int("removed", n).Msg("expired sessions removed")
			}
		}
	}
}

func (j *Janitor) Shutdown(ctx context.Context) error {
	return nil
}
