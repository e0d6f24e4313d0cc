package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rickgao/polymarket-clob/internal/model"
	"github.com/rickgao/polymarket-clob/internal/router"
)

const insertSnapshot = `
	INSERT INTO order_book_snapshots
		(id, market, asset_id, exchange_ts, received_at, source, bids, asks, best_bid, best_ask, hash, hash_ok)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (asset_id, hash, source) DO NOTHING`

// BookWriter consumes BookEvents from the router buffer and writes them to
// order_book_snapshots.
type BookWriter struct {
	cfg    Config
	logger *slog.Logger

	// Input from the router
	input *router.Buffer[model.BookEvent]

	// Database
	db BatchSender

	// Batching
	batch   []snapshotRow
	batchMu sync.Mutex

	// Lifecycle. ctx ends the loops and is cancelled only by Stop; writeCtx
	// carries the caller's values but never its cancellation, so a flush in
	// progress at shutdown still reaches the database.
	ctx      context.Context
	cancel   context.CancelFunc
	writeCtx context.Context
	wg       sync.WaitGroup

	metrics Metrics

	newID func() uuid.UUID
}

// NewBookWriter creates a new BookWriter.
func NewBookWriter(
	cfg Config,
	input *router.Buffer[model.BookEvent],
	db BatchSender,
	logger *slog.Logger,
) *BookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaults.FlushInterval
	}
	return &BookWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]snapshotRow, 0, cfg.BatchSize),
		newID:  uuid.New,
	}
}

// Start begins consuming books and writing to the database. Cancelling ctx
// does not stop the writer; call Stop once the producers are done.
func (w *BookWriter) Start(ctx context.Context) error {
	w.writeCtx = context.WithoutCancel(ctx)
	w.ctx, w.cancel = context.WithCancel(w.writeCtx)

	w.wg.Add(2)
	go w.consumeLoop()
	go w.flushLoop()

	w.logger.Info("book writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop shuts down the writer. Books still queued in the input buffer are
// written before it returns.
func (w *BookWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping book writer")

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("book writer stop timed out")
		return ctx.Err()
	}

	w.drain(ctx)
	w.flush(ctx)

	w.logger.Info("book writer stopped", "inserts", w.Stats().Inserts)
	return nil
}

// Stats returns current metrics.
func (w *BookWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop waits for the input buffer and accumulates batches. It exits
// when the writer stops or the buffer is closed and empty.
func (w *BookWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.input.Ready():
			w.drain(w.writeCtx)
			if w.input.Closed() && w.input.Len() == 0 {
				return
			}
		}
	}
}

// drain takes everything currently queued.
func (w *BookWriter) drain(ctx context.Context) {
	for {
		events := w.input.Drain(w.cfg.BatchSize)
		if len(events) == 0 {
			return
		}
		for _, ev := range events {
			w.handleEvent(ctx, ev)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *BookWriter) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.flush(w.writeCtx)
		}
	}
}

func (w *BookWriter) handleEvent(ctx context.Context, ev model.BookEvent) {
	row, err := w.transform(ev)
	if err != nil {
		w.logger.Warn("dropping book", "asset_id", ev.Book.AssetID, "source", ev.Source, "error", err)
		w.batchMu.Lock()
		w.metrics.Invalid++
		w.batchMu.Unlock()
		return
	}

	missing := ev.Book.Hash == ""

	w.batchMu.Lock()
	switch {
	case missing:
		w.metrics.MissingHashes++
	case !row.HashOK:
		w.metrics.HashMismatches++
	}
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	switch {
	case missing:
		w.logger.Debug("book without hash, storing computed hash", "asset_id", row.AssetID, "hash", row.Hash, "source", row.Source)
	case !row.HashOK:
		w.logger.Warn("book hash mismatch", "asset_id", row.AssetID, "hash", row.Hash, "source", row.Source)
	}
	if shouldFlush {
		w.flush(ctx)
	}
}

// transform converts a BookEvent to a snapshotRow.
func (w *BookWriter) transform(ev model.BookEvent) (snapshotRow, error) {
	b := ev.Book

	ts, err := strconv.ParseInt(b.Timestamp, 10, 64)
	if err != nil {
		return snapshotRow{}, fmt.Errorf("parse timestamp %q: %w", b.Timestamp, err)
	}

	quote, err := b.Quote()
	if err != nil {
		return snapshotRow{}, err
	}

	bids, err := levelsJSON(b.Bids)
	if err != nil {
		return snapshotRow{}, fmt.Errorf("encode bids: %w", err)
	}
	asks, err := levelsJSON(b.Asks)
	if err != nil {
		return snapshotRow{}, fmt.Errorf("encode asks: %w", err)
	}

	// A book without a hash is keyed by its computed hash, so distinct
	// snapshots never collide on the unique index. hash_ok stays false
	// because the exchange vouched for nothing.
	computed, err := b.ComputeHash()
	if err != nil {
		return snapshotRow{}, err
	}
	hash, hashOK := b.Hash, computed == b.Hash
	if hash == "" {
		hash, hashOK = computed, false
	}

	return snapshotRow{
		ID:         w.newID(),
		Market:     b.Market,
		AssetID:    b.AssetID,
		ExchangeTs: ts,
		ReceivedAt: ev.ReceivedAt.UTC(),
		Source:     ev.Source,
		Bids:       bids,
		Asks:       asks,
		BestBid:    decimal.NullDecimal{Decimal: quote.BestBid, Valid: quote.HasBid},
		BestAsk:    decimal.NullDecimal{Decimal: quote.BestAsk, Valid: quote.HasAsk},
		Hash:       hash,
		HashOK:     hashOK,
	}, nil
}

// levelsJSON encodes levels as a JSON array, never null.
func levelsJSON(levels []model.OrderSummary) ([]byte, error) {
	if levels == nil {
		levels = []model.OrderSummary{}
	}
	return json.Marshal(levels)
}

// flush writes the batch to the database.
func (w *BookWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	rows := w.batch
	w.batch = make([]snapshotRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	if len(rows) == 0 {
		return
	}

	start := time.Now()
	conflicts, err := w.batchInsert(ctx, rows)

	w.batchMu.Lock()
	if err != nil {
		w.metrics.Errors++
	} else {
		w.metrics.Inserts += int64(len(rows) - conflicts)
		w.metrics.Conflicts += int64(conflicts)
	}
	w.metrics.Flushes++
	w.batchMu.Unlock()

	if err != nil {
		w.logger.Error("book batch insert failed", "error", err, "count", len(rows))
		return
	}

	w.logger.Debug("flushed books",
		"rows", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows with ON CONFLICT DO NOTHING.
func (w *BookWriter) batchInsert(ctx context.Context, rows []snapshotRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSnapshot,
			r.ID, r.Market, r.AssetID, r.ExchangeTs, r.ReceivedAt, r.Source,
			r.Bids, r.Asks, r.BestBid, r.BestAsk, r.Hash, r.HashOK,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
