// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/mediabrowse/internal/api"
	"github.com/ManuGH/mediabrowse/internal/config"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediasource"
	"github.com/ManuGH/mediabrowse/internal/telemetry"
	"github.com/ManuGH/mediabrowse/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "config" {
		os.Exit(runConfigCLI(os.Args[2:]))
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	xglog.Configure(xglog.Config{Level: "info", Version: version.Resolved()})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, strings.TrimSpace(*configPath)); err != nil {
		logger.Fatal().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("daemon stopped with error")
	}
}

func run(ctx context.Context, configPath string) error {
	logger := xglog.WithComponent("daemon")

	loader := config.NewLoader(configPath, version.Resolved())
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.Logging.Level,
		Service: cfg.Logging.Service,
		Version: cfg.Version,
	})
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str(xglog.FieldPath, configPath).
		Str(xglog.FieldBaseURL, xglog.MaskURL(cfg.Jellyfin.BaseURL)).
		Str("cache", cfg.Cache.Backend).
		Msg("configuration loaded")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Logging.Service,
		ServiceVersion: version.Resolved(),
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	itemCache, err := newItemCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer func() { _ = itemCache.Close() }()

	client, err := newCatalogClient(cfg.Jellyfin, itemCache, cfg.Cache.TTL)
	if err != nil {
		return err
	}

	holder := config.NewConfigHolder(cfg, loader, configPath)
	holder.OnReload(func(next config.AppConfig) {
		if err := xglog.SetLevel(next.Logging.Level); err != nil {
			logger.Warn().Err(err).Msg("ignoring invalid log level")
		}
	})
	if err := holder.Watch(ctx); err != nil {
		logger.Warn().Err(err).Msg("config watcher unavailable")
	}

	tracing := ""
	if cfg.Telemetry.Enabled {
		tracing = cfg.Logging.Service
	}
	srv := api.New(api.Config{
		ListenAddr:     cfg.Server.ListenAddr,
		RateLimit:      cfg.Server.RateLimit,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		TracingService: tracing,
	}, mediasource.New(client), readinessChecks(client, itemCache))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Str(xglog.FieldEvent, "daemon.shutdown").Msg("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = errors.Join(
		serveErr,
		srv.Shutdown(shutdownCtx),
		tp.Shutdown(shutdownCtx),
	)
	logger.Info().Str(xglog.FieldEvent, "daemon.stopped").Msg("daemon stopped")
	return err
}
