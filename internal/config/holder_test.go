// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHolder_Reload(t *testing.T) {
	setRequiredEnv(t)
	path := writeFile(t, "config.yaml", "logging:\n  level: info\n")

	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader, path)
	var seen atomic.Value
	h.OnReload(func(c AppConfig) { seen.Store(c.Logging.Level) })

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, "debug", h.Get().Logging.Level)
	assert.Equal(t, "debug", seen.Load())
}

func TestConfigHolder_ReloadKeepsOldOnError(t *testing.T) {
	setRequiredEnv(t)
	path := writeFile(t, "config.yaml", "logging:\n  level: warn\n")

	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewConfigHolder(initial, loader, path)

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: nope\n"), 0o600))
	assert.Error(t, h.Reload(context.Background()))
	assert.Equal(t, "warn", h.Get().Logging.Level)
}

func TestConfigHolder_WatchReloadsOnWrite(t *testing.T) {
	setRequiredEnv(t)
	path := writeFile(t, "config.yaml", "logging:\n  level: info\n")

	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader, path)
	h.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0o600))
	assert.Eventually(t, func() bool {
		return h.Get().Logging.Level == "error"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestConfigHolder_WatchWithoutPath(t *testing.T) {
	h := NewConfigHolder(Defaults(), NewLoader("", ""), "")
	assert.NoError(t, h.Watch(context.Background()))
}
