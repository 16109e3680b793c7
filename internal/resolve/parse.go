package resolve

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

// parseCurrentPrices decodes a simple-price payload:
//
//	{"bitcoin": {"usd": 50000, "last_updated_at": 1625097600}, ...}
//
// Assets are returned sorted by id so output is deterministic.
func parseCurrentPrices(body []byte) ([]model.Asset, error) {
	var payload map[string]struct {
		USD           float64 `json:"usd"`
		LastUpdatedAt int64   `json:"last_updated_at"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode current prices: %v", errs.ErrMalformedPayload, err)
	}

	assets := make([]model.Asset, 0, len(payload))
	for id, point := range payload {
		assets = append(assets, model.NewAsset(id, point.USD, point.LastUpdatedAt))
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

// parsePastPrice decodes a single-day history payload:
//
//	{"id": "bitcoin", "market_data": {"current_price": {"usd": 33500.2}}}
//
// The timestamp is the requested day at midnight UTC; the origin does not
// echo it back.
func parsePastPrice(body []byte, id string, timestamp int64) (model.Asset, error) {
	var payload struct {
		ID         string `json:"id"`
		MarketData *struct {
			CurrentPrice struct {
				USD float64 `json:"usd"`
			} `json:"current_price"`
		} `json:"market_data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.Asset{}, fmt.Errorf("%w: decode past price: %v", errs.ErrMalformedPayload, err)
	}
	if payload.MarketData == nil {
		return model.Asset{}, fmt.Errorf("%w: past price response missing market_data", errs.ErrMalformedPayload)
	}

	return model.NewAsset(id, payload.MarketData.CurrentPrice.USD, timestamp), nil
}

// parseRange decodes a market-chart range payload:
//
//	{"prices": [[1625097600000, 33500.2], ...]}
//
// Points carry millisecond epochs; assets keep second precision. The origin
// returns points in ascending time order, which is preserved.
func parseRange(body []byte, id string) ([]model.Asset, error) {
	var payload struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode price range: %v", errs.ErrMalformedPayload, err)
	}

	assets := make([]model.Asset, 0, len(payload.Prices))
	for _, point := range payload.Prices {
		ts := int64(point[0]) / 1000
		assets = append(assets, model.NewAsset(id, point[1], ts))
	}
	return assets, nil
}
