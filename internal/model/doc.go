// Package model defines the shared data types of the price aggregator.
//
// Conventions:
//   - Asset ids: canonical lower-case, surrounding whitespace trimmed
//   - Prices: float64, USD
//   - Timestamps: int64 seconds since Unix epoch
//   - Composite keys: "<id>_<timestamp>", the identity an Asset carries
//     across the cache and the persistent store
package model
