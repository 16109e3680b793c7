package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

// PostgresStore persists assets in the assets table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a PostgresStore on an existing pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		pool:   pool,
		logger: logger,
	}
}

// FindByKey returns the assets stored under the composite key. At most one
// record exists per key; the slice form mirrors the range queries.
func (s *PostgresStore) FindByKey(ctx context.Context, key string) ([]model.Asset, error) {
	const q = `
		SELECT composite_key, asset_id, price, ts
		FROM assets
		WHERE composite_key = $1
	`
	rows, err := s.pool.Query(ctx, q, key)
	if err != nil {
		return nil, fmt.Errorf("%w: find by key %q: %v", errs.ErrStoreFailure, key, err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// FindRange returns the assets for an id whose timestamps fall in
// [fromTs, toTs], ordered ascending by timestamp.
func (s *PostgresStore) FindRange(ctx context.Context, id string, fromTs, toTs int64) ([]model.Asset, error) {
	const q = `
		SELECT composite_key, asset_id, price, ts
		FROM assets
		WHERE asset_id = $1 AND ts BETWEEN $2 AND $3
		ORDER BY ts
	`
	rows, err := s.pool.Query(ctx, q, model.Canonical(id), fromTs, toTs)
	if err != nil {
		return nil, fmt.Errorf("%w: find range for %q: %v", errs.ErrStoreFailure, id, err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// Save persists the asset if its composite key is not already present.
// Origin values for a fixed (id, timestamp) are immutable snapshots, so a
// duplicate save is redundant, not incorrect.
func (s *PostgresStore) Save(ctx context.Context, asset model.Asset) error {
	var exists bool
	const check = `SELECT EXISTS (SELECT 1 FROM assets WHERE composite_key = $1)`
	if err := s.pool.QueryRow(ctx, check, asset.CompositeKey).Scan(&exists); err != nil {
		return fmt.Errorf("%w: check key %q: %v", errs.ErrStoreFailure, asset.CompositeKey, err)
	}
	if exists {
		return nil
	}

	const insert = `
		INSERT INTO assets (composite_key, asset_id, price, ts)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (composite_key) DO NOTHING
	`
	if _, err := s.pool.Exec(ctx, insert, asset.CompositeKey, asset.ID, asset.Price, asset.Timestamp); err != nil {
		return fmt.Errorf("%w: save %q: %v", errs.ErrStoreFailure, asset.CompositeKey, err)
	}
	return nil
}

// Clear removes all stored assets.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE TABLE assets`); err != nil {
		return fmt.Errorf("%w: clear assets: %v", errs.ErrStoreFailure, err)
	}
	s.logger.Warn("assets table cleared")
	return nil
}

type assetRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAssets(rows assetRows) ([]model.Asset, error) {
	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.CompositeKey, &a.ID, &a.Price, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan asset row: %v", errs.ErrStoreFailure, err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate asset rows: %v", errs.ErrStoreFailure, err)
	}
	return assets, nil
}
