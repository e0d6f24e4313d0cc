package router

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rickgao/polymarket-clob/internal/model"
)

func bookEvent(assetID, hash, source string) model.BookEvent {
	return model.BookEvent{
		Book: model.OrderBookSummary{
			Market:    "0xcond",
			AssetID:   assetID,
			Timestamp: "1700000000000",
			Bids:      []model.OrderSummary{{Price: "0.50", Size: "100"}},
			Asks:      []model.OrderSummary{},
			Hash:      hash,
		},
		Source:     source,
		ReceivedAt: time.Now(),
	}
}

func TestRouter_HandleBook(t *testing.T) {
	r := New(16, slog.Default())

	events := []model.BookEvent{
		bookEvent("111", "h1", model.SourceWS),
		bookEvent("111", "h1", model.SourceREST), // same book from the poller
		bookEvent("222", "h1", model.SourceREST), // same hash, other asset
		bookEvent("111", "h2", model.SourceWS),
		bookEvent("111", "h1", model.SourceREST), // changed back
	}
	for _, ev := range events {
		if err := r.HandleBook(ev); err != nil {
			t.Fatalf("HandleBook() error = %v", err)
		}
	}

	stats := r.Stats()
	if stats.Received != 5 || stats.Routed != 4 || stats.Duplicates != 1 {
		t.Errorf("Stats() = %+v, want 5 received, 4 routed, 1 duplicate", stats)
	}

	out := r.Output().Drain(0)
	if len(out) != 4 {
		t.Fatalf("output = %d events, want 4", len(out))
	}
	if out[1].Book.AssetID != "222" || out[2].Book.Hash != "h2" {
		t.Errorf("output order = %+v", out)
	}
}

func TestRouter_HandleBookWithoutHash(t *testing.T) {
	r := New(4, nil)

	for i := 0; i < 2; i++ {
		if err := r.HandleBook(bookEvent("111", "", model.SourceREST)); err != nil {
			t.Fatalf("HandleBook() error = %v", err)
		}
	}

	if got := r.Stats().Duplicates; got != 1 {
		t.Errorf("Duplicates = %d, want 1", got)
	}
}

func TestRouter_StartStop(t *testing.T) {
	ws := make(chan model.BookEvent, 4)
	rest := make(chan model.BookEvent, 4)

	r := New(16, slog.Default())
	ctx := context.Background()
	if err := r.Start(ctx, ws, rest); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ws <- bookEvent("111", "a", model.SourceWS)
	rest <- bookEvent("222", "b", model.SourceREST)
	close(rest)

	deadline := time.After(time.Second)
	for r.Stats().Routed < 2 {
		select {
		case <-deadline:
			t.Fatalf("routed = %d, want 2", r.Stats().Routed)
		case <-time.After(5 * time.Millisecond):
		}
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}

	if !r.Output().Closed() {
		t.Error("output buffer not closed after Stop")
	}
	if err := r.HandleBook(bookEvent("333", "c", model.SourceWS)); !errors.Is(err, ErrClosed) {
		t.Errorf("HandleBook after Stop error = %v, want ErrClosed", err)
	}
}
