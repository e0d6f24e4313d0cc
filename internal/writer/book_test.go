package writer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/polymarket-clob/internal/model"
	"github.com/rickgao/polymarket-clob/internal/router"
)

// fakeDB records queued batches. Each Exec reports one inserted row unless
// the row's hash is listed in conflicts.
type fakeDB struct {
	mu        sync.Mutex
	queries   []*pgx.QueuedQuery
	batches   int
	conflicts map[string]bool
	err       error
	cancelled int // batches sent on an already cancelled context
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if ctx.Err() != nil {
		f.cancelled++
	}
	f.queries = append(f.queries, b.QueuedQueries...)
	return &fakeResults{db: f, queued: b.QueuedQueries}
}

func (f *fakeDB) rows() []*pgx.QueuedQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*pgx.QueuedQuery(nil), f.queries...)
}

type fakeResults struct {
	db     *fakeDB
	queued []*pgx.QueuedQuery
	next   int
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	if r.db.err != nil {
		return pgconn.CommandTag{}, r.db.err
	}
	q := r.queued[r.next]
	r.next++
	if hash, _ := q.Arguments[10].(string); r.db.conflicts[hash] {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeResults) QueryRow() pgx.Row         { return nil }
func (r *fakeResults) Close() error              { return nil }

func hashedBook(t *testing.T, assetID, ts string) model.OrderBookSummary {
	t.Helper()
	b, err := model.OrderBookSummary{
		Market:    "0xcond",
		AssetID:   assetID,
		Timestamp: ts,
		Bids:      []model.OrderSummary{{Price: "0.48", Size: "30"}, {Price: "0.49", Size: "10"}},
		Asks:      []model.OrderSummary{{Price: "0.52", Size: "25"}},
	}.WithHash()
	if err != nil {
		t.Fatalf("WithHash() error = %v", err)
	}
	return b
}

func TestBookWriter_Transform(t *testing.T) {
	w := NewBookWriter(DefaultConfig(), router.NewBuffer[model.BookEvent](1), nil, nil)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	w.newID = func() uuid.UUID { return id }

	receivedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	ev := model.BookEvent{
		Book:       hashedBook(t, "111", "1705320000000"),
		Source:     model.SourceREST,
		ReceivedAt: receivedAt,
	}

	row, err := w.transform(ev)
	if err != nil {
		t.Fatalf("transform() error = %v", err)
	}

	if row.ID != id {
		t.Errorf("ID = %s, want %s", row.ID, id)
	}
	if row.ExchangeTs != 1705320000000 {
		t.Errorf("ExchangeTs = %d, want 1705320000000", row.ExchangeTs)
	}
	if !row.ReceivedAt.Equal(receivedAt) {
		t.Errorf("ReceivedAt = %v, want %v", row.ReceivedAt, receivedAt)
	}
	if row.Source != "rest" {
		t.Errorf("Source = %q, want rest", row.Source)
	}
	if want := `[{"price":"0.48","size":"30"},{"price":"0.49","size":"10"}]`; string(row.Bids) != want {
		t.Errorf("Bids = %s, want %s", row.Bids, want)
	}
	if !row.BestBid.Valid || row.BestBid.Decimal.String() != "0.49" {
		t.Errorf("BestBid = %v, want 0.49", row.BestBid)
	}
	if !row.BestAsk.Valid || row.BestAsk.Decimal.String() != "0.52" {
		t.Errorf("BestAsk = %v, want 0.52", row.BestAsk)
	}
	if !row.HashOK {
		t.Error("HashOK = false, want true")
	}
}

func TestBookWriter_Transform_EmptySide(t *testing.T) {
	w := NewBookWriter(DefaultConfig(), router.NewBuffer[model.BookEvent](1), nil, nil)

	ev := model.BookEvent{Book: model.OrderBookSummary{AssetID: "1", Timestamp: "1", Hash: "bogus"}}
	row, err := w.transform(ev)
	if err != nil {
		t.Fatalf("transform() error = %v", err)
	}
	if string(row.Asks) != "[]" {
		t.Errorf("Asks = %s, want []", row.Asks)
	}
	if row.BestBid.Valid || row.BestAsk.Valid {
		t.Error("best prices should be NULL for an empty book")
	}
	if row.HashOK {
		t.Error("HashOK = true for a bogus hash")
	}
}

func TestBookWriter_Transform_MissingHash(t *testing.T) {
	w := NewBookWriter(DefaultConfig(), router.NewBuffer[model.BookEvent](1), nil, nil)

	a := model.OrderBookSummary{AssetID: "1", Timestamp: "1", Bids: []model.OrderSummary{{Price: "0.5", Size: "1"}}}
	b := model.OrderBookSummary{AssetID: "1", Timestamp: "1", Bids: []model.OrderSummary{{Price: "0.4", Size: "9"}}}

	rowA, err := w.transform(model.BookEvent{Book: a, Source: model.SourceREST})
	if err != nil {
		t.Fatalf("transform(a) error = %v", err)
	}
	rowB, err := w.transform(model.BookEvent{Book: b, Source: model.SourceREST})
	if err != nil {
		t.Fatalf("transform(b) error = %v", err)
	}

	wantA, _ := a.ComputeHash()
	if rowA.Hash != wantA {
		t.Errorf("Hash = %q, want computed %q", rowA.Hash, wantA)
	}
	if rowA.HashOK || rowB.HashOK {
		t.Error("HashOK = true for a book without a hash")
	}
	if rowA.Hash == rowB.Hash {
		t.Errorf("distinct books share key (%s, %q, %s)", rowA.AssetID, rowA.Hash, rowA.Source)
	}
}

func TestBookWriter_MissingHashesStored(t *testing.T) {
	db := &fakeDB{conflicts: map[string]bool{"": true}}
	w := NewBookWriter(Config{BatchSize: 10, FlushInterval: time.Hour}, router.NewBuffer[model.BookEvent](1), db, nil)

	ctx := context.Background()
	for _, price := range []string{"0.5", "0.4", "0.3"} {
		book := model.OrderBookSummary{AssetID: "1", Timestamp: "1", Bids: []model.OrderSummary{{Price: price, Size: "1"}}}
		w.handleEvent(ctx, model.BookEvent{Book: book, Source: model.SourceWS})
	}
	w.flush(ctx)

	stats := w.Stats()
	if stats.Inserts != 3 || stats.Conflicts != 0 {
		t.Errorf("Stats() = %+v, want 3 inserts and no conflicts", stats)
	}
	if stats.MissingHashes != 3 || stats.HashMismatches != 0 {
		t.Errorf("MissingHashes = %d, HashMismatches = %d, want 3 and 0", stats.MissingHashes, stats.HashMismatches)
	}
}

func TestBookWriter_Transform_Invalid(t *testing.T) {
	w := NewBookWriter(DefaultConfig(), router.NewBuffer[model.BookEvent](1), nil, nil)

	tests := []struct {
		name string
		book model.OrderBookSummary
	}{
		{"timestamp", model.OrderBookSummary{Timestamp: "soon"}},
		{"price", model.OrderBookSummary{Timestamp: "1", Bids: []model.OrderSummary{{Price: "x", Size: "1"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := w.transform(model.BookEvent{Book: tt.book}); err == nil {
				t.Error("transform() error = nil, want error")
			}
		})
	}
}

func TestBookWriter_Lifecycle(t *testing.T) {
	cfg := Config{
		BatchSize:     2,
		FlushInterval: 50 * time.Millisecond,
	}
	input := router.NewBuffer[model.BookEvent](10)
	db := &fakeDB{}
	w := NewBookWriter(cfg, input, db, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	input.Send(model.BookEvent{Book: hashedBook(t, "111", "1"), Source: model.SourceWS, ReceivedAt: time.Now()})
	input.Send(model.BookEvent{Book: hashedBook(t, "222", "2"), Source: model.SourceWS, ReceivedAt: time.Now()})
	input.Send(model.BookEvent{Book: hashedBook(t, "333", "3"), Source: model.SourceREST, ReceivedAt: time.Now()})

	deadline := time.After(time.Second)
	for w.Stats().Inserts < 3 {
		select {
		case <-deadline:
			t.Fatalf("Inserts = %d, want 3", w.Stats().Inserts)
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	rows := db.rows()
	if len(rows) != 3 {
		t.Fatalf("queued %d rows, want 3", len(rows))
	}
	if got := rows[0].Arguments[2]; got != "111" {
		t.Errorf("first asset_id = %v, want 111", got)
	}
}

func TestBookWriter_StopFlushesQueued(t *testing.T) {
	input := router.NewBuffer[model.BookEvent](10)
	db := &fakeDB{}
	w := NewBookWriter(Config{BatchSize: 100, FlushInterval: time.Hour}, input, db, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	input.Send(model.BookEvent{Book: hashedBook(t, "111", "1"), Source: model.SourceWS})
	input.Close()

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	stats := w.Stats()
	if stats.Inserts != 1 || stats.Flushes != 1 {
		t.Errorf("Stats() = %+v, want 1 insert in 1 flush", stats)
	}
}

func TestBookWriter_OutlivesStartContext(t *testing.T) {
	input := router.NewBuffer[model.BookEvent](10)
	db := &fakeDB{}
	w := NewBookWriter(Config{BatchSize: 1, FlushInterval: time.Hour}, input, db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// A shutdown signal cancels the root context before producers stop.
	cancel()

	input.Send(model.BookEvent{Book: hashedBook(t, "111", "1"), Source: model.SourceWS})
	input.Send(model.BookEvent{Book: hashedBook(t, "222", "2"), Source: model.SourceWS})

	deadline := time.After(time.Second)
	for w.Stats().Inserts < 2 {
		select {
		case <-deadline:
			t.Fatalf("Stats() = %+v, want 2 inserts", w.Stats())
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	stats := w.Stats()
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.cancelled != 0 {
		t.Errorf("%d batches sent on a cancelled context", db.cancelled)
	}
}

func TestBookWriter_Conflicts(t *testing.T) {
	dup := hashedBook(t, "111", "1")
	db := &fakeDB{conflicts: map[string]bool{dup.Hash: true}}
	w := NewBookWriter(Config{BatchSize: 10, FlushInterval: time.Hour}, router.NewBuffer[model.BookEvent](1), db, nil)

	ctx := context.Background()
	w.handleEvent(ctx, model.BookEvent{Book: dup, Source: model.SourceWS})
	w.handleEvent(ctx, model.BookEvent{Book: hashedBook(t, "111", "2"), Source: model.SourceWS})
	w.flush(ctx)

	stats := w.Stats()
	if stats.Inserts != 1 || stats.Conflicts != 1 {
		t.Errorf("Stats() = %+v, want 1 insert and 1 conflict", stats)
	}
}

func TestBookWriter_Errors(t *testing.T) {
	db := &fakeDB{err: errors.New("connection reset")}
	w := NewBookWriter(Config{BatchSize: 10, FlushInterval: time.Hour}, router.NewBuffer[model.BookEvent](1), db, nil)

	ctx := context.Background()
	w.handleEvent(ctx, model.BookEvent{Book: hashedBook(t, "111", "1")})
	w.handleEvent(ctx, model.BookEvent{Book: model.OrderBookSummary{Timestamp: "bad"}})
	stale := hashedBook(t, "111", "2")
	stale.Hash = "stale"
	w.handleEvent(ctx, model.BookEvent{Book: stale})
	w.flush(ctx)

	stats := w.Stats()
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", stats.Invalid)
	}
	if stats.HashMismatches != 1 {
		t.Errorf("HashMismatches = %d, want 1", stats.HashMismatches)
	}
	if stats.Inserts != 0 {
		t.Errorf("Inserts = %d, want 0", stats.Inserts)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BatchSize != 500 {
		t.Errorf("BatchSize = %d, want 500", cfg.BatchSize)
	}
	if cfg.FlushInterval != time.Second {
		t.Errorf("FlushInterval = %v, want 1s", cfg.FlushInterval)
	}
}
