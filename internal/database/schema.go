package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a statement. *pgxpool.Pool and pgx.Tx satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schema is applied in order. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS order_book_snapshots (
		id          UUID PRIMARY KEY,
		market      TEXT NOT NULL,
		asset_id    TEXT NOT NULL,
		exchange_ts BIGINT NOT NULL,
		received_at TIMESTAMPTZ NOT NULL,
		source      TEXT NOT NULL,
		bids        JSONB NOT NULL,
		asks        JSONB NOT NULL,
		best_bid    NUMERIC,
		best_ask    NUMERIC,
		hash        TEXT NOT NULL,
		hash_ok     BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS order_book_snapshots_asset_ts
		ON order_book_snapshots (asset_id, exchange_ts)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS order_book_snapshots_asset_hash
		ON order_book_snapshots (asset_id, hash, source)`,
}

// EnsureSchema creates the tables and indexes the recorder writes to.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
