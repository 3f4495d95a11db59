// Package cli is the local console channel used to try the bot without a
// messaging platform.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/sandevgo/gomibot/internal/config"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/pkg/log"
)

type ReadLine struct {
	console *Console
	rl      *readline.Instance

	mu sync.Mutex
}

func NewReadLine(console *Console, cfg *config.AppConfig) (*ReadLine, error) {
	runtimePath := cfg.GetRuntimePath()
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gomi> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		console: console,
		rl:      rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("user_id", r.console.UserID()).Msg("console chat started. Type 'exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.print(r.console.Handle(ctx, line))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func (r *ReadLine) Channel() string {
	return core.ChannelCLI
}

// Push prints messages addressed to the console user, e.g. reminders fired
// while chatting.
func (r *ReadLine) Push(ctx context.Context, userID string, messages []core.Message) error {
	if channel, _, ok := core.SplitUserID(userID); !ok || channel != core.ChannelCLI {
		return fmt.Errorf("%w: %s", core.ErrUnknownChannel, userID)
	}
	if userID != r.console.UserID() {
		log.FromCtx(ctx).Debug().Str("user_id", userID).Msg("console push for another user dropped")
		return nil
	}
	r.print(Render(messages))
	return nil
}

func (r *ReadLine) print(text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.rl.Stdout(), "%s\n\n", text)
}
