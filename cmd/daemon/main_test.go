// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mediabrowse/internal/config"
	"github.com/ManuGH/mediabrowse/internal/health"
	"github.com/ManuGH/mediabrowse/internal/jellyfin"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MEDIABROWSE_JELLYFIN_URL", "http://jf.local:8096")
	t.Setenv("MEDIABROWSE_JELLYFIN_API_KEY", "very-secret")
	t.Setenv("MEDIABROWSE_JELLYFIN_USER_ID", "u1")
}

func TestConfigCLI_InitValidateDump(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	var out, errOut bytes.Buffer
	require.Equal(t, 0, configCLI([]string{"init", "-f", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), path)

	errOut.Reset()
	assert.Equal(t, 1, configCLI([]string{"init", "-f", path}, &out, &errOut))
	assert.Contains(t, errOut.String(), "already exists")
	assert.Equal(t, 0, configCLI([]string{"init", "-f", path, "--force"}, &out, &errOut))

	out.Reset()
	assert.Equal(t, 0, configCLI([]string{"validate", "--file", path}, &out, &errOut))
	assert.Contains(t, out.String(), "is valid")

	out.Reset()
	assert.Equal(t, 0, configCLI([]string{"dump", "-f", path}, &out, &errOut))
	assert.Contains(t, out.String(), "listenAddr")
	assert.NotContains(t, out.String(), "very-secret")
}

func TestConfigCLI_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, configCLI(nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "Usage")

	assert.Equal(t, 2, configCLI([]string{"bogus"}, &out, &errOut))
	assert.Equal(t, 2, configCLI([]string{"validate"}, &out, &errOut))
}

func TestNewItemCache(t *testing.T) {
	ctx := context.Background()

	c, err := newItemCache(ctx, config.CacheConfig{Backend: config.CacheNone})
	require.NoError(t, err)
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c, err = newItemCache(ctx, config.CacheConfig{Backend: config.CacheMemory})
	require.NoError(t, err)
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.True(t, ok)
	require.NoError(t, c.Close())

	mr := miniredis.RunT(t)
	c, err = newItemCache(ctx, config.CacheConfig{Backend: config.CacheRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	c.Set(ctx, "k", []byte("v"), time.Minute)
	assert.True(t, mr.Exists("mediabrowse:k"))
	require.NoError(t, c.Close())

	c, err = newItemCache(ctx, config.CacheConfig{Backend: config.CacheBadger, BadgerPath: t.TempDir()})
	require.NoError(t, err)
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.True(t, ok)
	require.NoError(t, c.Close())
}

func TestNewCatalogClient(t *testing.T) {
	cfg := config.Defaults().Jellyfin
	cfg.BaseURL = "http://jf.local:8096"
	cfg.APIKey = "k"
	cfg.UserID = "u"

	client, err := newCatalogClient(cfg, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://jf.local:8096", client.ServerURL())
	assert.Equal(t, "k", client.AuthToken())

	cfg.UserID = ""
	_, err = newCatalogClient(cfg, nil, 0)
	assert.Error(t, err)
}

func TestReadinessChecks(t *testing.T) {
	mock := jellyfin.NewMockServer("k", "u")
	t.Cleanup(mock.Close)

	cfg := config.Defaults().Jellyfin
	cfg.BaseURL = mock.URL
	cfg.APIKey = "k"
	cfg.UserID = "u"
	client, err := newCatalogClient(cfg, nil, 0)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	c, err := newItemCache(context.Background(), config.CacheConfig{Backend: config.CacheRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	resp := readinessChecks(client, c).Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Contains(t, resp.Checks, "jellyfin")
	assert.Contains(t, resp.Checks, "cache")

	mr.Close()
	resp = readinessChecks(client, c).Ready(context.Background())
	assert.True(t, resp.Ready, "cache outage only degrades")
	assert.Equal(t, health.StatusDegraded, resp.Status)
}
