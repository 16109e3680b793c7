package model

import (
	"strconv"
	"strings"
)

// KeySeparator joins the asset id and timestamp in a composite key.
const KeySeparator = "_"

// Canonical returns the canonical form of an asset id: trimmed and
// lower-cased. All id comparisons in the aggregator go through this.
func Canonical(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// DeriveKey derives the deterministic composite key for an (id, timestamp)
// pair. Pure: the result depends only on the canonical id and the timestamp,
// never on the order the caller established them in.
func DeriveKey(id string, timestamp int64) string {
	return Canonical(id) + KeySeparator + strconv.FormatInt(timestamp, 10)
}

// Asset is a single price observation for one asset at one point in time.
//
// Assets are immutable once constructed and are only ever replaced, never
// updated in place. Construct them with NewAsset so the composite key is
// always consistent with the id and timestamp.
type Asset struct {
	ID           string  `json:"id"`              // Canonical asset id (e.g., "bitcoin")
	Price        float64 `json:"usd"`             // Price in USD
	Timestamp    int64   `json:"last_updated_at"` // Observation time (s since epoch)
	CompositeKey string  `json:"composite_key"`   // DeriveKey(ID, Timestamp)
}

// NewAsset builds an Asset with a canonical id and a derived composite key.
func NewAsset(id string, price float64, timestamp int64) Asset {
	cid := Canonical(id)
	return Asset{
		ID:           cid,
		Price:        price,
		Timestamp:    timestamp,
		CompositeKey: DeriveKey(cid, timestamp),
	}
}

// CoinInfo is a catalog record from the origin's coin list. It only feeds
// the asset registry and is never persisted.
type CoinInfo struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
