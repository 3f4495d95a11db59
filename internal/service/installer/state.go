package installer

import (
	"time"

	"github.com/sandevgo/gomibot/internal/config"
	"github.com/sandevgo/gomibot/pkg/env"
)

// Settings is what the wizard writes to .env. Tags mirror the config package.
type Settings struct {
	EnableLINE     bool `env:"GOMI_ENABLE_LINE"`
	EnableTelegram bool `env:"GOMI_ENABLE_TELEGRAM"`

	LINEChannelSecret string `env:"LINE_CHANNEL_SECRET"`
	LINEAccessToken   string `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	TelegramToken     string `env:"TELEGRAM_TOKEN"`

	// "false" disables reminders; empty keeps the default.
	ReminderEnabled  string        `env:"GOMI_REMINDER_ENABLED"`
	ReminderInterval time.Duration `env:"GOMI_REMINDER_INTERVAL"`

	SessionBackend string `env:"GOMI_SESSION_BACKEND"`
	CatalogPath    string `env:"GOMI_CATALOG_PATH"`
}

func (s *Settings) Env() (string, error) {
	return env.MarshalEnv(s)
}

type InstallState struct {
	Settings    Settings
	RuntimePath string
}

func NewInstallState() *InstallState {
	return &InstallState{
		Settings: Settings{
			SessionBackend: config.SessionBackendMemory,
		},
		RuntimePath: config.GetRuntimePath(),
	}
}
