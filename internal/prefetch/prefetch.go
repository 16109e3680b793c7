// Package prefetch warms the durable store at startup so the rolling
// window the resolver assumes is covered actually is.
package prefetch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/crypto-aggregator/internal/model"
	"github.com/rickgao/crypto-aggregator/internal/resolve"
)

// Resolver resolves a price series, persisting it as a side effect.
type Resolver interface {
	PriceRange(ctx context.Context, id, fromDate, toDate string) ([]model.Asset, error)
}

// Config controls the warm-up run.
type Config struct {
	// Assets to prefetch.
	Assets []string

	// Days is how far back the warmed window reaches.
	Days int

	// Concurrency caps simultaneous asset fetches.
	Concurrency int

	// Timeout bounds the whole run.
	Timeout time.Duration
}

// Prefetcher warms the store for a fixed set of assets.
type Prefetcher struct {
	cfg      Config
	resolver Resolver
	logger   *slog.Logger

	now func() time.Time
}

// New creates a Prefetcher.
func New(cfg Config, resolver Resolver, logger *slog.Logger) *Prefetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Prefetcher{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Run fetches the configured window for every asset. Per-asset failures
// are logged and counted, not propagated; a cold asset degrades range
// queries for that asset only. Run returns an error only when the run as a
// whole is cancelled.
func (p *Prefetcher) Run(ctx context.Context) error {
	if len(p.cfg.Assets) == 0 {
		p.logger.Info("prefetch skipped, no assets configured")
		return nil
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	today := p.now().UTC()
	from := today.AddDate(0, 0, -p.cfg.Days).Format(resolve.DateLayout)
	to := today.Format(resolve.DateLayout)

	p.logger.Info("prefetch starting",
		"assets", len(p.cfg.Assets),
		"from", from,
		"to", to,
		"concurrency", p.cfg.Concurrency,
	)
	start := time.Now()

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, id := range p.cfg.Assets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assets, err := p.resolver.PriceRange(gctx, id, from, to)
			if err != nil {
				failed.Add(1)
				p.logger.Warn("prefetch failed for asset", "id", id, "error", err)
				return nil
			}
			p.logger.Debug("prefetched asset", "id", id, "points", len(assets))
			return nil
		})
	}

	err := g.Wait()
	p.logger.Info("prefetch finished",
		"assets", len(p.cfg.Assets),
		"failed", failed.Load(),
		"duration", time.Since(start),
	)
	return err
}
