// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/ManuGH/mediabrowse/internal/cache"
	"github.com/ManuGH/mediabrowse/internal/config"
	"github.com/ManuGH/mediabrowse/internal/health"
	"github.com/ManuGH/mediabrowse/internal/jellyfin"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/version"
)

// newItemCache builds the configured item cache backend.
func newItemCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return cache.NewMemoryCache(time.Minute), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: "mediabrowse:",
		}, xglog.WithComponent("cache"))
		if err != nil {
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		return rc, nil
	case config.CacheBadger:
		bc, err := cache.NewBadgerCache(cfg.BadgerPath, xglog.WithComponent("cache"))
		if err != nil {
			return nil, err
		}
		return bc, nil
	default:
		return cache.NewNoOpCache(), nil
	}
}

// newCatalogClient builds the Jellyfin client from config.
func newCatalogClient(cfg config.JellyfinConfig, c cache.Cache, ttl time.Duration) (*jellyfin.Client, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}
	client, err := jellyfin.New(jellyfin.Options{
		BaseURL:          cfg.BaseURL,
		APIKey:           cfg.APIKey,
		UserID:           cfg.UserID,
		Timeout:          cfg.Timeout,
		MaxRetries:       maxRetries,
		RateLimit:        rate.Limit(cfg.RequestsPerSecond),
		RateLimitBurst:   cfg.Burst,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerReset:     cfg.BreakerReset,
		UserAgent:        "mediabrowse/" + version.Resolved(),
		Cache:            c,
		CacheTTL:         ttl,
	})
	if err != nil {
		return nil, fmt.Errorf("init jellyfin client: %w", err)
	}
	return client, nil
}

// readinessChecks registers the catalog as critical and a networked cache as
// non-critical, since lookups fall through to the catalog on cache errors.
func readinessChecks(client *jellyfin.Client, c cache.Cache) *health.Manager {
	m := health.NewManager(version.Resolved())
	m.Register(health.CheckFunc("jellyfin", true, client.Ping))
	if hc, ok := c.(interface{ HealthCheck(context.Context) error }); ok {
		m.Register(health.CheckFunc("cache", false, hc.HealthCheck))
	}
	return m
}
