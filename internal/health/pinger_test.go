package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePinger struct {
	body  []byte
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) ([]byte, error) {
	p.calls++
	return p.body, p.err
}

func TestMonitor(t *testing.T) {
	t.Run("successful ping keeps monitor healthy", func(t *testing.T) {
		p := &fakePinger{body: []byte(`{"gecko_says":"(V3) To the Moon!"}`)}
		m := NewMonitor(p, time.Hour, time.Second, nil)

		m.ping(context.Background())

		if !m.Healthy() {
			t.Error("Healthy() = false after successful ping")
		}
	})

	t.Run("failed ping marks unhealthy then recovers", func(t *testing.T) {
		p := &fakePinger{err: errors.New("connection refused")}
		m := NewMonitor(p, time.Hour, time.Second, nil)

		m.ping(context.Background())
		if m.Healthy() {
			t.Fatal("Healthy() = true after failed ping")
		}

		p.err = nil
		p.body = []byte(`{"gecko_says":"(V3) To the Moon!"}`)
		m.ping(context.Background())
		if !m.Healthy() {
			t.Error("Healthy() = false after recovery")
		}
	})

	t.Run("malformed body marks unhealthy", func(t *testing.T) {
		p := &fakePinger{body: []byte(`not json`)}
		m := NewMonitor(p, time.Hour, time.Second, nil)

		m.ping(context.Background())
		if m.Healthy() {
			t.Error("Healthy() = true after malformed ping body")
		}
	})

	t.Run("start pings immediately and stop waits", func(t *testing.T) {
		p := &fakePinger{body: []byte(`{"gecko_says":"(V3) To the Moon!"}`)}
		m := NewMonitor(p, time.Hour, time.Second, nil)

		m.Start(context.Background())
		m.Stop()

		if p.calls != 1 {
			t.Errorf("ping calls = %d, want 1", p.calls)
		}
	})
}
