package coingecko

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

// Validator reports whether an asset id is known to the registry.
type Validator interface {
	IsValid(id string) bool
}

// QueryBuilder assembles origin query paths from validated request input.
type QueryBuilder struct {
	apiKey string
	assets Validator
}

// NewQueryBuilder creates a QueryBuilder. The apiKey may be empty.
func NewQueryBuilder(apiKey string, assets Validator) *QueryBuilder {
	return &QueryBuilder{
		apiKey: apiKey,
		assets: assets,
	}
}

// CurrentPricesPath builds the simple-price query for the requested ids.
//
// Ids are normalized, deduplicated case-insensitively (first occurrence
// wins, original relative order preserved) and validated against the
// registry before being added. The first invalid id aborts the build with
// no partial result.
func (b *QueryBuilder) CurrentPricesPath(requestedIDs []string) (string, error) {
	seen := make(map[string]struct{}, len(requestedIDs))
	ordered := make([]string, 0, len(requestedIDs))

	for _, raw := range requestedIDs {
		id := model.Canonical(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		if !b.assets.IsValid(id) {
			return "", fmt.Errorf("%w: %q", errs.ErrInvalidIdentifier, strings.TrimSpace(raw))
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ordered, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_last_updated_at", "true")
	b.addKey(q)
	return "/simple/price?" + q.Encode(), nil
}

// PastPricePath builds the single-day history query for one asset.
// Pure templating: callers validate the id and date first.
func (b *QueryBuilder) PastPricePath(id, date string) string {
	q := url.Values{}
	q.Set("date", date)
	b.addKey(q)
	return "/coins/" + url.PathEscape(model.Canonical(id)) + "/history?" + q.Encode()
}

// RangePath builds the market-chart range query for one asset.
// Pure templating: callers validate the id and timestamps first.
func (b *QueryBuilder) RangePath(id string, fromTs, toTs int64) string {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("from", strconv.FormatInt(fromTs, 10))
	q.Set("to", strconv.FormatInt(toTs, 10))
	b.addKey(q)
	return "/coins/" + url.PathEscape(model.Canonical(id)) + "/market_chart/range?" + q.Encode()
}

func (b *QueryBuilder) addKey(q url.Values) {
	if b.apiKey != "" {
		q.Set("x_cg_demo_api_key", b.apiKey)
	}
}
