// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// ValidationError names the offending key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks cfg and returns every problem joined into one error.
func Validate(cfg AppConfig) error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.Server.ListenAddr) == "" {
		add("server.listenAddr", "must not be empty")
	}
	if cfg.Server.RateLimit < 0 {
		add("server.rateLimit", "must be >= 0, got %d", cfg.Server.RateLimit)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		add("server.shutdownTimeout", "must be positive")
	}

	if cfg.Jellyfin.BaseURL == "" {
		add("jellyfin.baseUrl", "is required")
	} else if u, err := url.Parse(cfg.Jellyfin.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("jellyfin.baseUrl", "must be an absolute http(s) URL, got %q", cfg.Jellyfin.BaseURL)
	}
	if cfg.Jellyfin.APIKey == "" {
		add("jellyfin.apiKey", "is required")
	}
	if cfg.Jellyfin.UserID == "" {
		add("jellyfin.userId", "is required")
	}
	if cfg.Jellyfin.Timeout <= 0 {
		add("jellyfin.timeout", "must be positive")
	}
	if cfg.Jellyfin.MaxRetries < 0 {
		add("jellyfin.maxRetries", "must be >= 0, got %d", cfg.Jellyfin.MaxRetries)
	}
	if cfg.Jellyfin.RequestsPerSecond <= 0 {
		add("jellyfin.requestsPerSecond", "must be positive")
	}
	if cfg.Jellyfin.Burst <= 0 {
		add("jellyfin.burst", "must be positive")
	}

	switch cfg.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if cfg.Cache.RedisAddr == "" {
			add("cache.redisAddr", "is required for the redis backend")
		}
	case CacheBadger:
		if cfg.Cache.BadgerPath == "" {
			add("cache.badgerPath", "is required for the badger backend")
		}
	default:
		add("cache.backend", "must be one of none, memory, redis, badger, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend != CacheNone && cfg.Cache.TTL <= 0 {
		add("cache.ttl", "must be positive when caching is enabled")
	}

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		add("logging.level", "unknown level %q", cfg.Logging.Level)
	}

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.Exporter != "grpc" && cfg.Telemetry.Exporter != "http" {
			add("telemetry.exporter", "must be grpc or http, got %q", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			add("telemetry.endpoint", "is required when telemetry is enabled")
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		add("telemetry.samplingRate", "must be within [0, 1], got %v", cfg.Telemetry.SamplingRate)
	}

	return errors.Join(errs...)
}
