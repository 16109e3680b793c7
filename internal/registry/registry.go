package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

// CatalogSource fetches the raw coin catalog payload from the origin.
type CatalogSource interface {
	Catalog(ctx context.Context) ([]byte, error)
}

// Config holds registry settings.
type Config struct {
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 6 * time.Hour,
	}
}

type idSet map[string]struct{}

// Registry holds the current snapshot of valid asset ids.
type Registry struct {
	cfg    Config
	source CatalogSource
	logger *slog.Logger

	snapshot atomic.Pointer[idSet]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Registry with an empty snapshot. Call Start (or Refresh)
// before validating ids.
func New(cfg Config, source CatalogSource, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		cfg:    cfg,
		source: source,
		logger: logger,
	}
	empty := make(idSet)
	r.snapshot.Store(&empty)
	return r
}

// Refresh fetches the full catalog and atomically replaces the valid-id set.
// On any failure the previous snapshot remains active.
func (r *Registry) Refresh(ctx context.Context) error {
	body, err := r.source.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: fetch coin catalog: %v", errs.ErrUpstreamUnavailable, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty coin catalog response", errs.ErrUpstreamUnavailable)
	}

	var coins []model.CoinInfo
	if err := json.Unmarshal(body, &coins); err != nil {
		return fmt.Errorf("%w: decode coin catalog: %v", errs.ErrMalformedPayload, err)
	}

	next := make(idSet, len(coins))
	for _, coin := range coins {
		if id := model.Canonical(coin.ID); id != "" {
			next[id] = struct{}{}
		}
	}

	r.snapshot.Store(&next)
	r.logger.Info("asset registry refreshed", "assets", len(next))
	return nil
}

// IsValid reports whether the id is in the current snapshot. Returns false
// for empty input. Side-effect-free.
func (r *Registry) IsValid(id string) bool {
	canonical := model.Canonical(id)
	if canonical == "" {
		return false
	}
	set := *r.snapshot.Load()
	_, ok := set[canonical]
	return ok
}

// Len returns the size of the current snapshot.
func (r *Registry) Len() int {
	return len(*r.snapshot.Load())
}

// Start performs an initial blocking refresh, then refreshes in the
// background on the configured interval.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if err := r.Refresh(r.ctx); err != nil {
		r.cancel()
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.refreshLoop()
	}()

	return nil
}

// Stop gracefully shuts down the refresh loop.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("asset registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) refreshLoop() {
	ticker := time.NewTicker(r.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(r.ctx); err != nil {
				// Keep serving the previous snapshot.
				r.logger.Warn("asset registry refresh failed", "error", err)
			}
		}
	}
}
