// Package ratelimit implements a fixed-window request limiter.
//
// Each client gets a counter that is incremented on every request and
// compared against the window limit. Counters are discarded wholesale when
// the window rolls over, so a client that exhausts its budget at the end of
// one window can spend a full budget again immediately in the next. That
// burst at the boundary is accepted; the limiter protects aggregate origin
// load, not precise per-second pacing.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter admits up to limit requests per client per window.
type Limiter struct {
	limit  int64
	logger *slog.Logger

	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

// New creates a Limiter allowing limit requests per window for each client.
func New(limit int64, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		limit:    limit,
		logger:   logger,
		counters: make(map[string]*atomic.Int64),
	}
}

// Admit reports whether the client may make another request in the current
// window. The counter is incremented even when the request is rejected; a
// client hammering past its budget does not gain admission sooner.
func (l *Limiter) Admit(client string) bool {
	return l.counter(client).Add(1) <= l.limit
}

// counter returns the client's window counter, creating it on first use.
func (l *Limiter) counter(client string) *atomic.Int64 {
	l.mu.RLock()
	c, ok := l.counters[client]
	l.mu.RUnlock()
	if ok {
		return c
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.counters[client]; ok {
		return c
	}
	c = new(atomic.Int64)
	l.counters[client] = c
	return c
}

// Reset discards all counters, starting a fresh window for every client.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.counters = make(map[string]*atomic.Int64)
	l.mu.Unlock()
}

// RunResetLoop resets the limiter every interval until ctx is cancelled.
// Run it in its own goroutine.
func (l *Limiter) RunResetLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Reset()
			l.logger.Debug("rate limit window reset", "interval", interval)
		}
	}
}
