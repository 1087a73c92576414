// SPDX-License-Identifier: MIT

// Command relayd runs the media relay HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidrelay/vidrelay/internal/api"
	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/daemon"
	"github.com/vidrelay/vidrelay/internal/log"
	"github.com/vidrelay/vidrelay/internal/platform"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger may not be configured yet; report plainly and bail.
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: "vidrelay",
		Version: version,
	})
	logger := log.WithComponent("relayd")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str(log.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Msg("starting vidrelay")

	logger.Info().Msgf("→ Downloader: %s", cfg.DownloaderPath)
	logger.Info().Msgf("→ Transcoder: %s", cfg.TranscoderPath)
	logger.Info().Msgf("→ Platforms: %d configured", len(platform.Names()))
	if cfg.MetricsEnabled {
		logger.Info().Msgf("→ Metrics: %s", cfg.MetricsAddr)
	}

	s := api.New(cfg)

	deps := daemon.Deps{
		Logger:     logger,
		ListenAddr: cfg.ListenAddr,
		APIHandler: s.Handler(),
	}
	if cfg.MetricsEnabled {
		deps.MetricsAddr = cfg.MetricsAddr
		deps.MetricsHandler = promhttp.Handler()
	}

	mgr, err := daemon.NewManager(config.ParseServerConfig(), deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "manager.creation_failed").
			Msg("failed to create daemon manager")
	}

	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "daemon.failed").
			Msg("daemon exited with error")
	}

	logger.Info().Str(log.FieldEvent, "shutdown.complete").Msg("vidrelay stopped")
}
