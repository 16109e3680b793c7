// Package store implements the durable tier of the resolution protocol.
//
// Schema:
//
//	CREATE TABLE assets (
//	    composite_key TEXT PRIMARY KEY,
//	    asset_id      TEXT NOT NULL,
//	    price         DOUBLE PRECISION NOT NULL,
//	    ts            BIGINT NOT NULL
//	);
//	CREATE INDEX assets_id_ts_idx ON assets (asset_id, ts);
//
// Saves are idempotent by composite key: a write is a no-op when the key
// already exists. The check-then-insert pair is not transactional; the
// primary key plus ON CONFLICT DO NOTHING makes the narrow race between two
// simultaneous inserts settle on a single record.
package store
