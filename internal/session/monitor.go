// Package session mirrors the server-issued token on the client side and
// proactively ends the session when the token's declared expiry passes or no
// user interaction has been observed within the inactivity window, without
// waiting for a failed server call.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/IRFXN3671/TaskFlow/internal/models"
)

type Reason string

const (
	ReasonExpired Reason = "expired"
	ReasonIdle    Reason = "idle"
)

type Config struct {
	InactivityWindow time.Duration
	PollInterval     time.Duration
	Now              func() time.Time
}

type Monitor struct {
	mu           sync.Mutex
	user         models.User
	token        string
	expiresAt    time.Time
	lastActivity time.Time
	active       bool
	subscribers  []func(Reason)

	window   time.Duration
	interval time.Duration
	now      func() time.Time
}

func New(cfg Config) *Monitor {
	window := cfg.InactivityWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Monitor{window: window, interval: interval, now: now}
}

func (m *Monitor) SetSession(user models.User, token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.token = token
	m.expiresAt = expiresAt
	m.lastActivity = m.now()
	m.active = true
}

// RecordActivity marks a user-interaction event (pointer, key, scroll, touch).
func (m *Monitor) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = m.now()
}

func (m *Monitor) Session() (models.User, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.token, m.active
}

// Subscribe registers a callback invoked once when the session ends.
func (m *Monitor) Subscribe(fn func(Reason)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Check evaluates the expiry and inactivity conditions and, if either has
// tripped, clears the session and notifies subscribers. It reports the
// reason when the session was ended by this call.
func (m *Monitor) Check() (Reason, bool) {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return "", false
	}
	now := m.now()
	var reason Reason
	switch {
	case !now.Before(m.expiresAt):
		reason = ReasonExpired
	case now.Sub(m.lastActivity) >= m.window:
		reason = ReasonIdle
	default:
		m.mu.Unlock()
		return "", false
	}
	m.user = models.User{}
	m.token = ""
	m.active = false
	subscribers := make([]func(Reason), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(reason)
	}
	return reason, true
}

// Logout clears the session without notifying subscribers.
func (m *Monitor) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = models.User{}
	m.token = ""
	m.active = false
}

// Run polls the session condition on a fixed interval until the context is
// canceled. One Run per tab; tabs are not synchronized.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check()
		}
	}
}
