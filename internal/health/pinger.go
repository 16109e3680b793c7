// Package health periodically verifies that the upstream price API is
// reachable. Failures are logged and surfaced through Healthy; they never
// stop the service, since the store keeps serving historical reads while
// the origin is down.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Pinger checks upstream liveness.
type Pinger interface {
	Ping(ctx context.Context) ([]byte, error)
}

// Monitor pings the upstream on a fixed interval.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	healthy atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates a Monitor pinging every interval, with a per-ping
// timeout.
func NewMonitor(pinger Pinger, interval, timeout time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
	m.healthy.Store(true)
	return m
}

// Healthy reports the outcome of the most recent ping.
func (m *Monitor) Healthy() bool {
	return m.healthy.Load()
}

// Start pings once immediately, then keeps pinging in the background.
func (m *Monitor) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.ping(runCtx)

	m.wg.Add(1)
	go m.loop(runCtx)
}

// Stop halts the background loop and waits for it to exit.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ping(ctx)
		}
	}
}

func (m *Monitor) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	body, err := m.pinger.Ping(pingCtx)
	if err != nil {
		m.healthy.Store(false)
		m.logger.Warn("upstream ping failed", "error", err)
		return
	}

	var payload struct {
		GeckoSays string `json:"gecko_says"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		m.healthy.Store(false)
		m.logger.Warn("upstream ping returned malformed body", "error", err)
		return
	}

	m.healthy.Store(true)
	m.logger.Debug("upstream ping ok", "gecko_says", payload.GeckoSays)
}
