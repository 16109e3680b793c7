// Package database provides connection pool management for PostgreSQL.
//
// The aggregator keeps a single pool: the assets table is the durable tier
// of the resolution protocol, keyed by composite key with a secondary
// (asset_id, ts) path for range queries.
package database
