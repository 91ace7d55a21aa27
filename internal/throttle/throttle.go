// Package throttle gates OTP re-issuance with a fixed cooldown per
// (principal, purpose) key. The reference client enforced this window on
// its side only; here it is also enforced on the server.
package throttle

import (
	"context"
	"sync"
	"time"
)

const DefaultWindow = 30 * time.Second

// Cooldown is consulted before re-sending a code and marked on every
// issuance so the window always measures from the last send.
type Cooldown interface {
	// Allow reports whether the cooldown has elapsed for key and, when it
	// has, starts a new window.
	Allow(ctx context.Context, key string) (bool, error)
	// Mark starts a new window for key unconditionally.
	Mark(ctx context.Context, key string) error
}

func Key(purpose string, principal string) string {
	return "otp:" + purpose + ":" + principal
}

// Memory is the single-process fallback used when no redis address is
// configured.
type Memory struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemory(window time.Duration) *Memory {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Memory{
		window: window,
		now:    time.Now,
		last:   make(map[string]time.Time),
	}
}

func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)
	if _, ok := m.last[key]; ok {
		return false, nil
	}
	m.last[key] = now
	return true, nil
}

func (m *Memory) Mark(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)
	m.last[key] = now
	return nil
}

// prune drops elapsed windows so the map only ever holds keys that are
// still inside their cooldown. Caller holds the lock.
func (m *Memory) prune(now time.Time) {
	for key, last := range m.last {
		if now.Sub(last) >= m.window {
			delete(m.last, key)
		}
	}
}
