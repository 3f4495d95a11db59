package log

import (
	"context"

	"github.com/rs/zerolog"
)

// CronLogger adapts zerolog to robfig/cron's Logger interface.
type CronLogger struct {
	logger *zerolog.Logger
}

func NewCronLoggerFromCtx(ctx context.Context) *CronLogger {
	return &CronLogger{
		logger: FromCtx(ctx),
	}
}

func (c *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (c *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
