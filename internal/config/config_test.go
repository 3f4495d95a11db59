package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GOMI_RUNTIME_PATH", "")

	c := NewAppConfig(context.Background())

	if c.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q", c.Timezone)
	}
	if c.FallbackMenu {
		t.Error("FallbackMenu should default to false")
	}
	if want := filepath.Join(home, ".gomibot", "gomibot.db"); c.GetDatabasePath() != want {
		t.Errorf("GetDatabasePath() = %q, want %q", c.GetDatabasePath(), want)
	}
}

func TestNewAppConfig_AbsoluteRuntimePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOMI_RUNTIME_PATH", dir)

	c := NewAppConfig(context.Background())
	if c.GetRuntimePath() != dir {
		t.Errorf("GetRuntimePath() = %q, want %q", c.GetRuntimePath(), dir)
	}
	if c.GetEnvPath() != filepath.Join(dir, ".env") {
		t.Errorf("GetEnvPath() = %q", c.GetEnvPath())
	}
}

func TestNewDialogueConfig_Defaults(t *testing.T) {
	c := NewDialogueConfig(context.Background())
	if c.ItemMaxLength != 20 || c.NoteMaxLength != 100 {
		t.Errorf("limits = %d/%d, want 20/100", c.ItemMaxLength, c.NoteMaxLength)
	}
}

func TestNewSessionConfig_Override(t *testing.T) {
	t.Setenv("GOMI_SESSION_TTL", "90s")
	t.Setenv("GOMI_SESSION_BACKEND", SessionBackendSQLite)

	c := NewSessionConfig(context.Background())
	if c.TTL != 90*time.Second {
		t.Errorf("TTL = %v", c.TTL)
	}
	if c.Backend != SessionBackendSQLite {
		t.Errorf("Backend = %q", c.Backend)
	}
}

func TestNewReminderConfig_Defaults(t *testing.T) {
	c := NewReminderConfig(context.Background())
	if !c.Enabled || c.Interval != 5*time.Minute {
		t.Errorf("got enabled=%v interval=%v", c.Enabled, c.Interval)
	}
}
