package log

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWith_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := NewContextWithWriter(context.Background(), &buf, true)

	ctx = With(ctx, "user_id", "line:U1", "route", "list")
	FromCtx(ctx).Info().Msg("dispatched")
	flush()

	out := buf.String()
	for _, want := range []string{"dispatched", "user_id", "line:U1", "route", "list"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestCronLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := NewContextWithWriter(context.Background(), &buf, false)

	NewCronLoggerFromCtx(ctx).Error(errors.New("boom"), "panic", "job", "reminders")
	flush()

	out := buf.String()
	if !strings.Contains(out, "boom") || !strings.Contains(out, "reminders") {
		t.Errorf("unexpected output: %q", out)
	}
}
