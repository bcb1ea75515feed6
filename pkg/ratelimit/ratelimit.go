// Package ratelimit caps the number of probe starts in a trailing one-second
// window. The cap is approximate: a probe that starts reserves a slot that is
// given back exactly one second later, so bursts at window boundaries can
// briefly exceed the configured rate.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond limits probe starts per trailing second (0 = unlimited)
	RequestsPerSecond int

	// Window overrides the trailing window size. Defaults to one second;
	// only tests should shrink it.
	Window time.Duration
}

// Limiter blocks workers until the trailing window has capacity.
// A blocked worker waits on a condition variable and burns no CPU.
type Limiter struct {
	mu      sync.Mutex
	cond    *sync.Cond
	max     int
	window  time.Duration
	current int
}

// New creates a limiter from the given configuration.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{}
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Second
	}
	l := &Limiter{
		max:    cfg.RequestsPerSecond,
		window: window,
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// NewPerSecond creates a limiter allowing n probe starts per trailing second.
func NewPerSecond(n int) *Limiter {
	return New(&Config{RequestsPerSecond: n})
}

// Wait blocks until the window count is strictly below the cap, then claims
// a slot. The slot is released exactly once, one window later. A limiter
// with no cap returns immediately.
func (l *Limiter) Wait() {
	if l.max <= 0 {
		return
	}

	l.mu.Lock()
	for l.current >= l.max {
		l.cond.Wait()
	}
	l.current++
	l.mu.Unlock()

	time.AfterFunc(l.window, l.release)
}

func (l *Limiter) release() {
	l.mu.Lock()
	l.current--
	l.mu.Unlock()
	l.cond.Signal()
}

// Stats reports the limiter's current state.
type Stats struct {
	// Current is the number of slots claimed in the trailing window.
	Current int

	// Max is the configured cap (0 = unlimited).
	Max int
}

// Stats returns a snapshot of the limiter state.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Current: l.current, Max: l.max}
}
