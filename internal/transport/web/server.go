// Package web serves the webhook, health and metrics endpoints.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sandevgo/gomibot/internal/config"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/pkg/log"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	cfg    *config.HTTPConfig
	router *mux.Router
	server *http.Server
}

// Option mounts an optional handler on the router.
type Option func(r *mux.Router)

// WithLINEWebhook mounts the LINE webhook endpoint.
func WithLINEWebhook(h http.HandlerFunc) Option {
	return func(r *mux.Router) {
		r.HandleFunc("/webhook/line", h).Methods(http.MethodPost)
	}
}

func NewServer(cfg *config.HTTPConfig, db Pinger, opts ...Option) *Server {
	return &Server{
		cfg:    cfg,
		router: NewRouter(db, opts...),
	}
}

func NewRouter(db Pinger, opts ...Option) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Recovery)

	r.HandleFunc("/healthz", healthHandler(db)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	for _, opt := range opts {
		opt(r)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "")
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			log.FromCtx(r.Context()).Error().Err(err).Msg("health check failed")
			WriteJSON(w, http.StatusServiceUnavailable, health{Status: "unavailable", Version: core.Version})
			return
		}
		WriteJSON(w, http.StatusOK, health{Status: "ok", Version: core.Version})
	}
}
