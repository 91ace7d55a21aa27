package throttle

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(30 * time.Second)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	key := Key("registration", "a@x.com")

	ok, err := m.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "second request inside the window must be blocked")

	now = now.Add(31 * time.Second)
	ok, err = m.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCooldownIndependentKeys(t *testing.T) {
	m := NewMemory(30 * time.Second)
	ctx := context.Background()

	ok, err := m.Allow(ctx, Key("registration", "a@x.com"))
	require.NoError(t, err)
	assert.True(t, ok)

	// different purpose, same principal
	ok, err = m.Allow(ctx, Key("password-reset", "a@x.com"))
	require.NoError(t, err)
	assert.True(t, ok)

	// same purpose, different principal
	ok, err = m.Allow(ctx, Key("registration", "b@x.com"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryMarkStartsWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(30 * time.Second)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	key := Key("registration", "a@x.com")

	require.NoError(t, m.Mark(ctx, key))

	ok, err := m.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "issuance marked via Mark must block a resend")
}

func TestMemoryDropsElapsedEntries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(30 * time.Second)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Mark(ctx, Key("registration", "a@x.com")))
	require.NoError(t, m.Mark(ctx, Key("registration", "b@x.com")))
	assert.Len(t, m.last, 2)

	now = now.Add(31 * time.Second)
	ok, err := m.Allow(ctx, Key("registration", "c@x.com"))
	require.NoError(t, err)
	assert.True(t, ok)

	// elapsed windows are gone; only the fresh key remains
	assert.Len(t, m.last, 1)
}

func newRedisCooldown(t *testing.T, window time.Duration) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewRedis(client, "cooldown_test", window)
}

func TestRedisCooldown(t *testing.T) {
	m, r := newRedisCooldown(t, 30*time.Second)
	ctx := context.Background()
	key := Key("password-reset", "a@x.com")

	ok, err := r.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	m.FastForward(31 * time.Second)

	ok, err = r.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisMarkRefreshesWindow(t *testing.T) {
	m, r := newRedisCooldown(t, 30*time.Second)
	ctx := context.Background()
	key := Key("registration", "a@x.com")

	require.NoError(t, r.Mark(ctx, key))
	m.FastForward(20 * time.Second)
	require.NoError(t, r.Mark(ctx, key))
	m.FastForward(20 * time.Second)

	// 40s after the first mark but only 20s after the second
	ok, err := r.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCooldownBackendDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 20 * time.Millisecond,
		ReadTimeout: 20 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedis(client, "", 30*time.Second)

	_, err := r.Allow(context.Background(), "k")
	assert.Error(t, err)
}
