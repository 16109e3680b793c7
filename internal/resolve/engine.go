package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/crypto-aggregator/internal/coingecko"
	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

// Cache is the first resolution tier.
type Cache interface {
	Get(ctx context.Context, key string) (model.Asset, bool, error)
	Put(ctx context.Context, key string, asset model.Asset) error
}

// Store is the durable second tier.
type Store interface {
	FindByKey(ctx context.Context, key string) ([]model.Asset, error)
	FindRange(ctx context.Context, id string, fromTs, toTs int64) ([]model.Asset, error)
	Save(ctx context.Context, asset model.Asset) error
}

// Origin fetches raw payloads from the upstream price API.
type Origin interface {
	Fetch(ctx context.Context, pathQuery string) ([]byte, error)
}

// Validator reports whether an asset id is known to the registry.
type Validator interface {
	IsValid(id string) bool
}

// Config holds engine settings.
type Config struct {
	// PrefetchDays is the rolling window the store is assumed to cover.
	// Range requests starting before it never consult the origin.
	PrefetchDays int

	// MaxHistoryDays is the oldest age a requested date may have.
	MaxHistoryDays int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PrefetchDays:   30,
		MaxHistoryDays: 365,
	}
}

// Engine orchestrates cache, store and origin lookups.
type Engine struct {
	cfg     Config
	queries *coingecko.QueryBuilder
	assets  Validator
	cache   Cache
	store   Store
	origin  Origin
	logger  *slog.Logger

	now func() time.Time
}

// New creates an Engine.
func New(cfg Config, queries *coingecko.QueryBuilder, assets Validator, cache Cache, store Store, origin Origin, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		queries: queries,
		assets:  assets,
		cache:   cache,
		store:   store,
		origin:  origin,
		logger:  logger,
		now:     time.Now,
	}
}

// CurrentPrices resolves the latest USD price for the requested ids.
// Current prices are always fetched fresh from the origin; each returned
// point is written through to the store and the cache so later historical
// lookups can hit the lower tiers.
func (e *Engine) CurrentPrices(ctx context.Context, ids []string) ([]model.Asset, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids", errs.ErrInvalidRequest)
	}

	path, err := e.queries.CurrentPricesPath(ids)
	if err != nil {
		return nil, err
	}

	body, err := e.fetchOrigin(ctx, path)
	if err != nil {
		return nil, err
	}

	assets, err := parseCurrentPrices(body)
	if err != nil {
		return nil, err
	}

	for _, asset := range assets {
		if err := e.persist(ctx, asset); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// PastPrice resolves the price of one asset on one past day, consulting the
// cache, then the store, then the origin. A cache hit makes zero store and
// origin calls; a store hit is written back to the cache.
func (e *Engine) PastPrice(ctx context.Context, id, date string) (model.Asset, error) {
	if err := e.validateID(id); err != nil {
		return model.Asset{}, err
	}
	day, err := e.validateDate(date)
	if err != nil {
		return model.Asset{}, err
	}

	timestamp := day.Unix()
	key := model.DeriveKey(id, timestamp)

	if asset, ok := e.cacheGet(ctx, key); ok {
		e.logger.Debug("cache hit", "key", key)
		return asset, nil
	}

	found, err := e.store.FindByKey(ctx, key)
	if err != nil {
		return model.Asset{}, err
	}
	if len(found) > 0 {
		e.logger.Debug("store hit", "key", key)
		e.cachePut(ctx, found[0])
		return found[0], nil
	}

	body, err := e.fetchOrigin(ctx, e.queries.PastPricePath(id, date))
	if err != nil {
		return model.Asset{}, err
	}

	asset, err := parsePastPrice(body, id, timestamp)
	if err != nil {
		return model.Asset{}, err
	}

	if err := e.persist(ctx, asset); err != nil {
		return model.Asset{}, err
	}
	return asset, nil
}

// PriceRange resolves the price series of one asset between two dates,
// inclusive. Ranges starting before the prefetch window are served entirely
// from the store; the origin is never consulted for them. Later ranges are
// fetched from the origin and written through point by point.
func (e *Engine) PriceRange(ctx context.Context, id, fromDate, toDate string) ([]model.Asset, error) {
	if err := e.validateID(id); err != nil {
		return nil, err
	}
	from, err := e.validateDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := e.validateDate(toDate)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from date %q is after to date %q", errs.ErrInvalidRequest, fromDate, toDate)
	}

	fromTs := from.Unix()
	toTs := endOfDay(to)

	boundary := midnightUTC(e.now()).AddDate(0, 0, -e.cfg.PrefetchDays)
	if from.Before(boundary) {
		e.logger.Debug("range served from store", "id", id, "from", fromDate, "to", toDate)
		return e.store.FindRange(ctx, id, fromTs, toTs)
	}

	body, err := e.fetchOrigin(ctx, e.queries.RangePath(id, fromTs, toTs))
	if err != nil {
		return nil, err
	}

	assets, err := parseRange(body, model.Canonical(id))
	if err != nil {
		return nil, err
	}

	for _, asset := range assets {
		if err := e.persist(ctx, asset); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// validateID checks request shape, then registry membership.
func (e *Engine) validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id", errs.ErrInvalidRequest)
	}
	if !e.assets.IsValid(id) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidIdentifier, strings.TrimSpace(id))
	}
	return nil
}

// fetchOrigin performs an origin read and maps failures to the taxonomy:
// transport errors and empty bodies are upstream unavailability.
func (e *Engine) fetchOrigin(ctx context.Context, path string) ([]byte, error) {
	body, err := e.origin.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUpstreamUnavailable, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", errs.ErrUpstreamUnavailable)
	}
	return body, nil
}

// persist writes an asset through both lower tiers: an idempotent store
// save followed by an unconditional cache overwrite.
func (e *Engine) persist(ctx context.Context, asset model.Asset) error {
	if err := e.store.Save(ctx, asset); err != nil {
		return err
	}
	e.cachePut(ctx, asset)
	return nil
}

// cacheGet treats cache errors as misses; the cache tier is best-effort.
func (e *Engine) cacheGet(ctx context.Context, key string) (model.Asset, bool) {
	asset, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache get failed", "key", key, "error", err)
		return model.Asset{}, false
	}
	return asset, ok
}

func (e *Engine) cachePut(ctx context.Context, asset model.Asset) {
	if err := e.cache.Put(ctx, asset.CompositeKey, asset); err != nil {
		e.logger.Warn("cache put failed", "key", asset.CompositeKey, "error", err)
	}
}
