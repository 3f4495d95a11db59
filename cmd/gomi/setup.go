package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/config"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/command"
	"github.com/sandevgo/gomibot/internal/service/dialogue"
	"github.com/sandevgo/gomibot/internal/service/reminder"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/internal/service/session"
	"github.com/sandevgo/gomibot/internal/storage/memory"
	"github.com/sandevgo/gomibot/internal/storage/sqlite"
	"github.com/sandevgo/gomibot/internal/transport"
	"github.com/sandevgo/gomibot/internal/transport/line"
	"github.com/sandevgo/gomibot/internal/transport/telegram"
	"github.com/sandevgo/gomibot/internal/transport/web"
	"github.com/sandevgo/gomibot/pkg/log"
	"github.com/sandevgo/gomibot/pkg/srv"
)

// app is the wiring shared by every command.
type app struct {
	cfg       *config.AppConfig
	db        *sql.DB
	loc       *time.Location
	cat       *catalog.Catalog
	formatter *render.Formatter
	users     *sqlite.UserRepo
	schedules *sqlite.ScheduleRepo
	limits    dialogue.Limits
	reminders *config.ReminderConfig

	// dedup is the in-process cache, also the session store by default.
	dedup *memory.Cache
}

func newApp(ctx context.Context) (*app, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	cfg := config.NewAppConfig(ctx)
	dlgCfg := config.NewDialogueConfig(ctx)
	remCfg := config.NewReminderConfig(ctx)

	loc, err := calendar.LoadZone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}

	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &app{
		cfg:       cfg,
		db:        db,
		loc:       loc,
		cat:       cat,
		formatter: render.NewFormatter(cat),
		users:     sqlite.NewUserRepo(db),
		schedules: sqlite.NewScheduleRepo(db),
		limits:    dialogue.Limits{ItemMax: dlgCfg.ItemMaxLength, NoteMax: dlgCfg.NoteMaxLength},
		reminders: remCfg,
		dedup:     memory.NewCache(),
	}, nil
}

type sessionCache interface {
	core.Cache
	session.Sweeper
}

// router builds the dispatcher and the janitor sweeping its caches.
func (a *app) router(ctx context.Context) (core.Dispatcher, srv.Service) {
	sessCfg := config.NewSessionConfig(ctx)

	var cache sessionCache = a.dedup
	sweepers := session.Sweepers{a.dedup}
	if sessCfg.Backend == config.SessionBackendSQLite {
		sq := sqlite.NewCache(a.db)
		cache = sq
		sweepers = append(sweepers, sq)
		log.FromCtx(ctx).Info().Msg("dialogue sessions stored in sqlite")
	}

	store := session.NewStore(cache, sessCfg.TTL)
	dlg := dialogue.NewService(a.schedules, store, a.formatter, a.limits)
	handlers := command.NewHandlers(a.users, a.schedules, dlg, a.formatter, a.loc, a.reminders.Interval)

	router := command.New(command.NewRoutes(handlers, a.cfg.FallbackMenu), a.formatter)
	return router, session.NewJanitor(sweepers, session.DefaultSweepInterval)
}

// gateways builds the push side of every enabled channel. Transports that
// also receive events are returned as services.
func (a *app) gateways(ctx context.Context, dispatcher core.Dispatcher) (*transport.Mux, []srv.Service, *line.Bot, error) {
	mux := transport.NewMux()
	var services []srv.Service
	var lineBot *line.Bot

	if a.cfg.EnableLINE {
		lineCfg := config.NewLINEConfig(ctx)
		client, err := line.NewClient(lineCfg.APIBase, lineCfg.AccessToken)
		if err != nil {
			return nil, nil, nil, err
		}
		lineBot = line.NewBot(lineCfg.ChannelSecret, client, dispatcher, a.dedup)
		mux.Register(lineBot)
	}

	if a.cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, dispatcher, a.cat)
		if err != nil {
			return nil, nil, nil, err
		}
		mux.Register(bot)
		services = append(services, bot)
	}

	return mux, services, lineBot, nil
}

func (a *app) engine(gateway core.Gateway, interval time.Duration) *reminder.Engine {
	return reminder.NewEngine(a.users, a.schedules, gateway, a.formatter, a.loc, interval)
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Configuration and storage
	a, err := newApp(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}
	services = append(services, srv.NewNamedCleanup("sqlite", a.db.Close))

	if !a.cfg.EnableLINE && !a.cfg.EnableTelegram {
		logger.Warn().Msg("no chat channel enabled, run 'gomi install' or set GOMI_ENABLE_LINE / GOMI_ENABLE_TELEGRAM")
	}

	// 2. Command routing and dialogue sessions
	router, janitor := a.router(ctx)
	services = append(services, janitor)

	// 3. Transports
	mux, transports, lineBot, err := a.gateways(ctx, router)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}

	// 4. Reminders
	if a.reminders.Enabled {
		services = append(services, reminder.NewScheduler(a.engine(mux, a.reminders.Interval), a.loc))
	} else {
		logger.Info().Msg("reminders disabled")
	}

	// 5. HTTP: webhook, health and metrics
	var opts []web.Option
	if lineBot != nil {
		opts = append(opts, web.WithLINEWebhook(lineBot.HandleWebhook))
	}
	services = append(services, web.NewServer(config.NewHTTPConfig(ctx), a.db, opts...))
	services = append(services, transports...)

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
