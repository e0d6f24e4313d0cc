package writer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BatchSender sends a queued batch. *pgxpool.Pool satisfies it.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Config contains configuration for the book writer.
type Config struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
	}
}

// snapshotRow is one row of order_book_snapshots.
type snapshotRow struct {
	ID         uuid.UUID
	Market     string
	AssetID    string
	ExchangeTs int64 // Milliseconds
	ReceivedAt time.Time
	Source     string // "ws" or "rest"
	Bids       []byte // JSONB: [{"price":"0.48","size":"30"}, ...]
	Asks       []byte
	BestBid    decimal.NullDecimal
	BestAsk    decimal.NullDecimal
	Hash       string
	HashOK     bool
}

// Metrics holds counters for a writer.
type Metrics struct {
	Inserts        int64
	Conflicts      int64
	Errors         int64
	Flushes        int64
	Invalid        int64 // Books that could not be turned into a row
	HashMismatches int64 // Stored, but the exchange hash did not verify
	MissingHashes  int64 // Stored under the computed hash
}
