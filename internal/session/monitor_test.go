package session

import (
	"context"
	"testing"
	"time"

	"github.com/IRFXN3671/TaskFlow/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMonitor(window time.Duration) (*Monitor, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	m := New(Config{InactivityWindow: window, PollInterval: time.Second, Now: clock.Now})
	return m, clock
}

func TestCheckHealthySession(t *testing.T) {
	m, clock := newTestMonitor(15 * time.Minute)
	m.SetSession(models.User{ID: 1}, "tok", clock.Now().Add(time.Hour))

	clock.Advance(5 * time.Minute)
	m.RecordActivity()
	clock.Advance(5 * time.Minute)

	if _, ended := m.Check(); ended {
		t.Fatal("session should still be valid")
	}
	if _, _, active := m.Session(); !active {
		t.Fatal("session should remain active")
	}
}

func TestCheckExpiry(t *testing.T) {
	m, clock := newTestMonitor(time.Hour)
	m.SetSession(models.User{ID: 1}, "tok", clock.Now().Add(10*time.Minute))

	clock.Advance(5 * time.Minute)
	m.RecordActivity()
	clock.Advance(6 * time.Minute)

	reason, ended := m.Check()
	if !ended || reason != ReasonExpired {
		t.Fatalf("expected expiry, got ended=%v reason=%q", ended, reason)
	}
	if _, token, active := m.Session(); active || token != "" {
		t.Fatal("session state should be cleared after expiry")
	}
}

func TestCheckInactivity(t *testing.T) {
	m, clock := newTestMonitor(15 * time.Minute)
	m.SetSession(models.User{ID: 1}, "tok", clock.Now().Add(time.Hour))

	clock.Advance(15 * time.Minute)

	reason, ended := m.Check()
	if !ended || reason != ReasonIdle {
		t.Fatalf("expected idle logout, got ended=%v reason=%q", ended, reason)
	}
}

func TestSubscribersNotifiedOnce(t *testing.T) {
	m, clock := newTestMonitor(15 * time.Minute)
	var got []Reason
	m.Subscribe(func(r Reason) { got = append(got, r) })
	m.SetSession(models.User{ID: 1}, "tok", clock.Now().Add(time.Minute))

	clock.Advance(2 * time.Minute)
	m.Check()
	m.Check()

	if len(got) != 1 || got[0] != ReasonExpired {
		t.Fatalf("expected one expired notification, got %v", got)
	}
}

func TestActivityDefersIdleLogout(t *testing.T) {
	m, clock := newTestMonitor(10 * time.Minute)
	m.SetSession(models.User{ID: 1}, "tok", clock.Now().Add(time.Hour))

	for i := 0; i < 6; i++ {
		clock.Advance(9 * time.Minute)
		m.RecordActivity()
	}
	if _, ended := m.Check(); ended {
		t.Fatal("regular activity should keep the session alive")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m, _ := newTestMonitor(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
