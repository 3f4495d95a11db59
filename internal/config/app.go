package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/gomibot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"GOMI_RUNTIME_PATH" envDefault:".gomibot"`

	// Transport Flags
	EnableLINE     bool `env:"GOMI_ENABLE_LINE" envDefault:"false"`
	EnableTelegram bool `env:"GOMI_ENABLE_TELEGRAM" envDefault:"false"`

	Timezone string `env:"GOMI_TIMEZONE" envDefault:"Asia/Tokyo"`

	// Unmatched text replies with the main menu instead of staying silent.
	FallbackMenu bool `env:"GOMI_FALLBACK_MENU" envDefault:"false"`

	// Optional YAML file layered over the embedded message catalog.
	CatalogPath string `env:"GOMI_CATALOG_PATH"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "gomibot.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
