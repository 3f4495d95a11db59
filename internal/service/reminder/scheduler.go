package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sandevgo/gomibot/pkg/log"
)

// Scheduler runs the engine on a cron schedule aligned to the interval.
type Scheduler struct {
	engine *Engine
	loc    *time.Location
	cron   *cron.Cron
}

func NewScheduler(engine *Engine, loc *time.Location) *Scheduler {
	return &Scheduler{engine: engine, loc: loc}
}

// CronSpec aligns ticks to wall-clock multiples of interval when it divides an
// hour, and falls back to a fixed period otherwise.
func CronSpec(interval time.Duration) string {
	minutes := int(interval / time.Minute)
	if interval%time.Minute == 0 && minutes > 0 && minutes < 60 && 60%minutes == 0 {
		if minutes == 1 {
			return "* * * * *"
		}
		return fmt.Sprintf("*/%d * * * *", minutes)
	}
	return "@every " + interval.String()
}

func (s *Scheduler) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "reminder_scheduler").Logger()
	cronLogger := log.NewCronLoggerFromCtx(ctx)

	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)

	spec := CronSpec(s.engine.Interval())
	if _, err := s.cron.AddFunc(spec, func() {
		_, _ = s.engine.Run(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	logger.Info().Str("spec", spec).Str("zone", s.loc.String()).Msg("starting reminder scheduler")
	s.cron.Start()

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reminder scheduler did not stop: %w", ctx.Err())
	}
}
