// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryCache_Expiration(t *testing.T) {
	mc := NewMemoryCache(0).(*memoryCache)
	defer mc.Close()
	ctx := context.Background()

	now := time.Now()
	mc.now = func() time.Time { return now }
	mc.Set(ctx, "k", []byte("v"), time.Second)

	now = now.Add(2 * time.Second)
	_, ok := mc.Get(ctx, "k")
	assert.False(t, ok)

	assert.Equal(t, 1, mc.deleteExpired())
	assert.Equal(t, int64(1), mc.Stats().Evictions)
	assert.Equal(t, 0, mc.Stats().CurrentSize)
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	buf := []byte("abc")
	c.Set(ctx, "k", buf, time.Minute)
	buf[0] = 'z'

	got, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_JanitorStopsOnClose(t *testing.T) {
	c := NewMemoryCache(5 * time.Millisecond)
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), time.Millisecond)

	require.Eventually(t, func() bool { return c.Stats().CurrentSize == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
	assert.NoError(t, c.Close())
}
