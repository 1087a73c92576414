// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the relay.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vidrelay/vidrelay/internal/api/middleware"
	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/health"
	"github.com/vidrelay/vidrelay/internal/log"
	"github.com/vidrelay/vidrelay/internal/pipeline"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	cfg           config.AppConfig
	pipeline      *pipeline.Orchestrator
	healthManager *health.Manager
	logger        zerolog.Logger
}

// New creates the API server with its pipeline orchestrator and health checks.
func New(cfg config.AppConfig) *Server {
	hm := health.NewManager()
	hm.RegisterChecker(health.NewExecChecker("downloader", cfg.DownloaderPath))
	hm.RegisterChecker(health.NewExecChecker("transcoder", cfg.TranscoderPath))

	return &Server{
		cfg: cfg,
		pipeline: pipeline.New(pipeline.Config{
			DownloaderPath:    cfg.DownloaderPath,
			TranscoderPath:    cfg.TranscoderPath,
			TitleProbeTimeout: cfg.TitleProbeTimeout,
		}),
		healthManager: hm,
		logger:        log.WithComponent("api"),
	}
}

// Handler builds the router with the canonical middleware stack and all routes.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		EnableMetrics:    true,
		EnableLogging:    true,
		RateLimitEnabled: s.cfg.RateLimitEnabled,
		RateLimitRPS:     s.cfg.RateLimitRPS,
		RateLimitBurst:   s.cfg.RateLimitBurst,
	})

	r.Get("/", s.handleIndex)
	r.Get("/api/platforms", s.handlePlatforms)
	r.Get("/api/download", s.handleDownload)
	// Legacy alias from the service's Twitter-only days.
	r.Get("/twitter/stream", s.handleDownload)
	r.Get("/health", s.healthManager.ServeHealth)
	r.Get("/ready", s.healthManager.ServeReady)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found\n"))
	})

	return r
}
